package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinSpread/internal/domain/models"
	drepo "FinSpread/internal/domain/repository"
	domsvc "FinSpread/internal/domain/service"
	applogger "FinSpread/pkg/logger"

	"github.com/shopspring/decimal"
)

// SpreadScanner fetches chains, runs the spread engine and hands results to the sink.
type SpreadScanner struct {
	provider  drepo.ChainProvider
	analyzer  domsvc.SpreadAnalyzer
	sink      drepo.SpreadSink
	metrics   drepo.Metrics
	log       *applogger.Logger
	threshold decimal.Decimal
	now       drepo.Clock
}

// NewSpreadScanner wires a scanner. sink may be nil when results are only returned.
func NewSpreadScanner(
	provider drepo.ChainProvider,
	analyzer domsvc.SpreadAnalyzer,
	sink drepo.SpreadSink,
	metrics drepo.Metrics,
	log *applogger.Logger,
	threshold decimal.Decimal,
	now drepo.Clock,
) *SpreadScanner {
	if log == nil {
		log = applogger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &SpreadScanner{
		provider:  provider,
		analyzer:  analyzer,
		sink:      sink,
		metrics:   metrics,
		log:       log,
		threshold: threshold,
		now:       now,
	}
}

// Threshold returns the configured profit potential threshold.
func (s *SpreadScanner) Threshold() decimal.Decimal { return s.threshold }

// Evaluate fetches and analyzes one side of a chain without writing to the sink.
// The returned result is never nil; on failure its Err is set and also returned.
func (s *SpreadScanner) Evaluate(ctx context.Context, symbol string, t models.OptionType, threshold decimal.Decimal) (*models.ScanResult, error) {
	res := &models.ScanResult{Symbol: symbol, OptionType: t, RunAt: s.now()}
	start := time.Now()

	chain, err := s.provider.FetchChain(ctx, symbol)
	s.observeLatency("fetch_chain", start)
	if err != nil {
		return s.fail(res, fmt.Errorf("fetch chain: %w", err))
	}
	m, err := chain.ExpDateMap(t)
	if err != nil {
		return s.fail(res, err)
	}

	analyzed := time.Now()
	out, err := s.analyzer.Analyze(m, threshold)
	s.observeLatency("analyze", analyzed)
	if err != nil {
		return s.fail(res, err)
	}

	res.Counts = out.Counts
	res.Spreads = models.Records(out.Spreads)
	if s.metrics != nil {
		s.metrics.RecordStageCounts(t, out.Counts)
		s.metrics.RecordSpreadsKept(symbol, t, len(res.Spreads))
	}
	return res, nil
}

// Scan evaluates one symbol at the configured threshold and writes the result to the sink.
func (s *SpreadScanner) Scan(ctx context.Context, symbol string, t models.OptionType) (*models.ScanResult, error) {
	res, err := s.Evaluate(ctx, symbol, t, s.threshold)
	if err != nil {
		return res, err
	}

	if s.sink != nil {
		start := time.Now()
		err := s.sink.Write(ctx, res)
		s.observeLatency("sink_write", start)
		if err != nil {
			return s.fail(res, fmt.Errorf("write results: %w", err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordScan(symbol, t, "ok")
	}
	s.log.Info("scan complete",
		applogger.String("symbol", symbol),
		applogger.String("type", string(t)),
		applogger.Int("contracts", res.Counts.Contracts),
		applogger.Int("liquid", res.Counts.Liquid),
		applogger.Int("itm", res.Counts.InTheMoney),
		applogger.Int("candidates", res.Counts.Candidates),
		applogger.Int("kept", res.Counts.Kept),
	)
	return res, nil
}

// ScanAll scans every symbol for every type in order. A failure is recorded in
// that result and does not stop the remaining scans. Cancelling ctx does.
func (s *SpreadScanner) ScanAll(ctx context.Context, symbols []string, types []models.OptionType) []*models.ScanResult {
	out := make([]*models.ScanResult, 0, len(symbols)*len(types))
	for _, sym := range symbols {
		for _, t := range types {
			if ctx.Err() != nil {
				res := &models.ScanResult{Symbol: sym, OptionType: t, RunAt: s.now(), Err: ctx.Err()}
				out = append(out, res)
				continue
			}
			res, _ := s.Scan(ctx, sym, t)
			out = append(out, res)
		}
	}
	return out
}

func (s *SpreadScanner) fail(res *models.ScanResult, err error) (*models.ScanResult, error) {
	res.Err = err
	kind := ErrorKind(err)
	if s.metrics != nil {
		s.metrics.RecordError(kind)
		s.metrics.RecordScan(res.Symbol, res.OptionType, kind)
	}
	s.log.Warn("scan failed",
		applogger.String("symbol", res.Symbol),
		applogger.String("type", string(res.OptionType)),
		applogger.String("kind", kind),
		applogger.Error(err),
	)
	return res, err
}

func (s *SpreadScanner) observeLatency(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordLatency(op, time.Since(start).Seconds())
	}
}

// ErrorKind classifies a scan error for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case models.IsStructural(err):
		return "structural"
	case models.IsInsufficientData(err):
		return "insufficient_data"
	case errors.Is(err, models.ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, models.ErrProviderStatus):
		return "provider"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
