package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanPayload struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
}

func TestNewMessageAndDecode(t *testing.T) {
	now := time.Date(2024, 1, 9, 14, 30, 0, 0, time.UTC)
	msg, err := NewMessage("scan", scanPayload{Symbol: "SPY", Type: "CALL"}, now)
	require.NoError(t, err)
	assert.Equal(t, "scan", msg.Type)
	assert.Equal(t, now, msg.EnqueuedAt)
	assert.NotEmpty(t, msg.ID)

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	var back Message
	require.NoError(t, json.Unmarshal(b, &back))

	p, err := Decode[scanPayload](back.Payload)
	require.NoError(t, err)
	assert.Equal(t, "SPY", p.Symbol)

	_, err = Decode[scanPayload](json.RawMessage(`[`))
	assert.Error(t, err)
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(Message{Attempts: 0}, 2))
	assert.True(t, ShouldRetry(Message{Attempts: 1}, 2))
	assert.False(t, ShouldRetry(Message{Attempts: 2}, 2))
	assert.False(t, ShouldRetry(Message{}, 0))
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))

	base := errors.New("bad chain")
	err := fmt.Errorf("scan: %w", Permanent(base))
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "scan: bad chain", err.Error())
	assert.False(t, IsPermanent(base))
}

type noopJob struct{}

func (noopJob) Name() string                                  { return "noop" }
func (noopJob) Type() string                                  { return "noop" }
func (noopJob) Handle(context.Context, json.RawMessage) error { return nil }

func TestRedisQueue_KeysAndRegistration(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	q := NewRedisQueue(nil, Config{}, client, WithKeyPrefix("test:queue"))
	assert.Equal(t, "test:queue:messages", q.queueKey())
	assert.Equal(t, "test:queue:retry", q.retryKey())
	assert.Equal(t, "test:queue:dlq", q.deadLetterKey())
	assert.Equal(t, 1, q.config.Workers)

	err := q.Enqueue(context.Background(), "noop", nil)
	assert.ErrorContains(t, err, "no job registered")

	q.RegisterJob(noopJob{})
	q.RegisterJob(noopJob{})
	assert.Len(t, q.jobs, 1)

	assert.NoError(t, q.Stop(context.Background()), "stop before start is a no-op")
}

type funcJob struct {
	typ string
	fn  func(ctx context.Context) error
}

func (j funcJob) Name() string                                        { return j.typ }
func (j funcJob) Type() string                                        { return j.typ }
func (j funcJob) Handle(ctx context.Context, _ json.RawMessage) error { return j.fn(ctx) }

func newTestQueue(t *testing.T, jobs ...Job) *RedisQueue {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })
	q := NewRedisQueue(nil, Config{RetryLimit: 2}, client)
	for _, j := range jobs {
		q.RegisterJob(j)
	}
	return q
}

func TestRedisQueue_HandleRequeuesInterruptedJob(t *testing.T) {
	started := make(chan struct{})
	q := newTestQueue(t, funcJob{typ: "slow", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	msg := Message{ID: "m1", Type: "slow", Attempts: 1}
	next, o := q.handle(ctx, msg)
	assert.Equal(t, outcomeRequeue, o)
	assert.Equal(t, 1, next.Attempts, "shutdown does not spend an attempt")
}

func TestRedisQueue_HandleOutcomes(t *testing.T) {
	transient := errors.New("provider down")
	q := newTestQueue(t,
		funcJob{typ: "ok", fn: func(context.Context) error { return nil }},
		funcJob{typ: "flaky", fn: func(context.Context) error { return transient }},
		funcJob{typ: "bad", fn: func(context.Context) error { return Permanent(transient) }},
		funcJob{typ: "self-cancel", fn: func(context.Context) error { return context.Canceled }},
	)
	ctx := context.Background()

	tests := []struct {
		name     string
		msg      Message
		want     outcome
		attempts int
	}{
		{"success", Message{Type: "ok"}, outcomeDone, 0},
		{"transient failure retries", Message{Type: "flaky"}, outcomeRetry, 1},
		{"retries exhausted", Message{Type: "flaky", Attempts: 2}, outcomeDeadLetter, 2},
		{"permanent failure", Message{Type: "bad"}, outcomeDeadLetter, 0},
		{"handler canceled while running", Message{Type: "self-cancel"}, outcomeRetry, 1},
		{"unknown type", Message{Type: "nope"}, outcomeDeadLetter, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, o := q.handle(ctx, tt.msg)
			assert.Equal(t, tt.want, o)
			assert.Equal(t, tt.attempts, next.Attempts)
		})
	}
}
