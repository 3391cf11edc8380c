package queue

import (
	"context"
	"encoding/json"
	"errors"
)

// Job handles every message of one type.
type Job interface {
	Name() string
	Type() string

	// Handle processes one payload. Returning an error schedules a retry unless
	// the error is marked Permanent.
	Handle(ctx context.Context, payload json.RawMessage) error
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as final. The message is dead-lettered without retries.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
