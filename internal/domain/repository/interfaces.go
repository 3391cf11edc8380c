package repository

import (
	"context"
	"time"

	"FinSpread/internal/domain/models"
)

// ChainProvider fetches an option chain snapshot for one underlying.
type ChainProvider interface {
	FetchChain(ctx context.Context, symbol string) (*models.OptionChain, error)
}

// RawChainSource returns the undecoded provider document for one underlying.
type RawChainSource interface {
	FetchRaw(ctx context.Context, symbol string) ([]byte, error)
}

// SpreadSink receives the surviving spreads of one scan.
type SpreadSink interface {
	Name() string
	Write(ctx context.Context, res *models.ScanResult) error
	Close() error
}

// SpreadStore persists scan results for later querying.
type SpreadStore interface {
	StoreBatch(ctx context.Context, res *models.ScanResult) error
	Latest(ctx context.Context, symbol string, t models.OptionType, limit int) ([]models.SpreadRecord, error)
	Health(ctx context.Context) error
	Close() error
}

// SpreadPublisher emits scan results to downstream consumers.
type SpreadPublisher interface {
	Publish(ctx context.Context, res *models.ScanResult) error
	Close() error
}

type Metrics interface {
	RecordScan(symbol string, t models.OptionType, result string)
	RecordStageCounts(t models.OptionType, counts models.StageCounts)
	RecordSpreadsKept(symbol string, t models.OptionType, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// Clock lets use cases stamp runs deterministically in tests.
type Clock func() time.Time
