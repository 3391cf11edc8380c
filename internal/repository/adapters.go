package repository

import (
	"context"

	"FinSpread/internal/domain/models"
	domrepo "FinSpread/internal/domain/repository"
)

// StoreSink exposes a SpreadStore as a SpreadSink.
type StoreSink struct {
	store domrepo.SpreadStore
}

func NewStoreSink(store domrepo.SpreadStore) *StoreSink { return &StoreSink{store: store} }

func (s *StoreSink) Name() string { return "clickhouse" }

func (s *StoreSink) Write(ctx context.Context, res *models.ScanResult) error {
	return s.store.StoreBatch(ctx, res)
}

func (s *StoreSink) Close() error { return s.store.Close() }

// PublisherSink exposes a SpreadPublisher as a SpreadSink.
type PublisherSink struct {
	pub domrepo.SpreadPublisher
}

func NewPublisherSink(pub domrepo.SpreadPublisher) *PublisherSink { return &PublisherSink{pub: pub} }

func (s *PublisherSink) Name() string { return "kafka" }

func (s *PublisherSink) Write(ctx context.Context, res *models.ScanResult) error {
	return s.pub.Publish(ctx, res)
}

func (s *PublisherSink) Close() error { return s.pub.Close() }
