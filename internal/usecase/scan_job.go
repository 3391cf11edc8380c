package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"FinSpread/internal/domain/models"
	"FinSpread/pkg/queue"
)

// ScanJobType is the queue message type for asynchronous scans.
const ScanJobType = "spread.scan"

// ScanJobPayload asks for one symbol and option type to be scanned.
type ScanJobPayload struct {
	Symbol string            `json:"symbol"`
	Type   models.OptionType `json:"type"`
}

// ScanJob runs queued scans through a SpreadScanner so results reach the configured sinks.
type ScanJob struct {
	scanner *SpreadScanner
}

var _ queue.Job = (*ScanJob)(nil)

func NewScanJob(scanner *SpreadScanner) *ScanJob { return &ScanJob{scanner: scanner} }

func (j *ScanJob) Name() string { return "spread-scan" }
func (j *ScanJob) Type() string { return ScanJobType }

// Handle scans the requested symbol. Data errors are marked permanent and dead-lettered;
// provider and sink failures are returned so the queue can retry them.
func (j *ScanJob) Handle(ctx context.Context, payload json.RawMessage) error {
	p, err := queue.Decode[ScanJobPayload](payload)
	if err != nil {
		return queue.Permanent(err)
	}
	if p.Symbol == "" {
		return queue.Permanent(fmt.Errorf("scan job: empty symbol"))
	}
	t, ok := models.ParseOptionType(string(p.Type))
	if !ok {
		return queue.Permanent(fmt.Errorf("scan job: unknown option type %q", p.Type))
	}
	if _, err := j.scanner.Scan(ctx, p.Symbol, t); err != nil {
		if models.IsStructural(err) || models.IsInsufficientData(err) {
			return queue.Permanent(err)
		}
		return err
	}
	return nil
}

// EnqueueScans queues one job per symbol and type, returning how many were queued.
func EnqueueScans(ctx context.Context, pub queue.Publisher, symbols []string, types []models.OptionType) (int, error) {
	n := 0
	for _, s := range symbols {
		for _, t := range types {
			if err := pub.Enqueue(ctx, ScanJobType, ScanJobPayload{Symbol: s, Type: t}); err != nil {
				return n, fmt.Errorf("enqueue %s %s: %w", s, t, err)
			}
			n++
		}
	}
	return n, nil
}
