package repository

import (
	"context"
	"errors"
	"fmt"

	"FinSpread/internal/domain/models"
	domrepo "FinSpread/internal/domain/repository"
)

// MultiSink fans a scan out to every sink. All sinks are attempted; the
// returned error joins every failure.
type MultiSink struct {
	sinks []domrepo.SpreadSink
}

func NewMultiSink(sinks ...domrepo.SpreadSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Name() string { return "multi" }

// Sinks returns the wrapped sinks in write order.
func (m *MultiSink) Sinks() []domrepo.SpreadSink { return m.sinks }

func (m *MultiSink) Write(ctx context.Context, res *models.ScanResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, res); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
