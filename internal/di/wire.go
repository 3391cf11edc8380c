//go:build wireinject
// +build wireinject

package di

import (
	"FinSpread/pkg/config"
	"FinSpread/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// The cleanup releases sinks, caches and clients in reverse construction order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLimiter,

		// Infrastructure clients
		ProvideRedisCache,
		ProvideCacheStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideChainClient,
		ProvideChainProvider,
		ProvideSpreadStore,
		ProvideSink,

		// Use cases
		ProvideAnalyzer,
		ProvideSpreadScanner,
		ProvideQueue,

		// Delivery
		ProvideSpreadsHandler,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
