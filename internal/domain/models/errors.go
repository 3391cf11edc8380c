package models

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderStatus is returned when the chain provider answers with a non-2xx status.
	ErrProviderStatus = errors.New("provider: unexpected status")
	// ErrUnknownSymbol is returned when the provider reports the chain as unavailable.
	ErrUnknownSymbol = errors.New("provider: symbol not found")
)

// StructuralError reports provider input missing an expected nesting level or carrying
// a malformed contract record. It aborts the run for that symbol.
type StructuralError struct {
	Path   string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("structural error at %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("structural error at %s: %s", e.Path, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// InsufficientDataError reports an empty input to a stage that needs at least one contract.
type InsufficientDataError struct {
	Stage string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s received no contracts", e.Stage)
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// IsInsufficientData reports whether err is (or wraps) an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
