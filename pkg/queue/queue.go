package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher enqueues typed messages.
type Publisher interface {
	Enqueue(ctx context.Context, msgType string, payload any) error
}

// Config tunes workers and retries.
type Config struct {
	Workers    int           // number of workers
	RetryLimit int           // number of retries before a message goes to the dead-letter list
	RetryDelay time.Duration // time delay between retries
	PollWait   time.Duration // BRPOP block time
}

// Message is the envelope stored in Redis.
type Message struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewMessage encodes payload into a fresh envelope.
func NewMessage(msgType string, payload any, now time.Time) (Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Message{
		ID:         fmt.Sprintf("%d", now.UnixNano()),
		Type:       msgType,
		Payload:    b,
		EnqueuedAt: now,
	}, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](payload json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &out, nil
}
