package di

import (
	"context"
	"fmt"
	"time"

	"FinSpread/internal/domain/repository"
	domsvc "FinSpread/internal/domain/service"
	"FinSpread/internal/handler/api"
	internalrepo "FinSpread/internal/repository"
	chaincache "FinSpread/internal/service/cache"
	"FinSpread/internal/service/ratelimit"
	"FinSpread/internal/service/tdameritrade"
	"FinSpread/internal/services/spreads"
	"FinSpread/internal/usecase"
	pkgcache "FinSpread/pkg/cache"
	pkgch "FinSpread/pkg/clickhouse"
	"FinSpread/pkg/config"
	pkgkafka "FinSpread/pkg/kafka"
	applogger "FinSpread/pkg/logger"
	"FinSpread/pkg/metrics"
	"FinSpread/pkg/queue"
	"FinSpread/pkg/server"

	"github.com/shopspring/decimal"
)

const schemaTimeout = 10 * time.Second

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideLimiter creates the limiter shared by the provider client and the HTTP handler.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideChainClient creates the TD Ameritrade chains client.
func ProvideChainClient(cfg *config.Config, lim *ratelimit.Limiter, l *applogger.Logger) *tdameritrade.Client {
	return tdameritrade.New(tdameritrade.Options{
		BaseURL:    cfg.Provider.BaseURL,
		APIKey:     cfg.Provider.APIKey,
		Timeout:    cfg.Provider.Timeout,
		Retries:    cfg.Provider.Retries,
		RatePerSec: cfg.Provider.RatePerSec,
	}, lim, l)
}

func noCleanup() {}

// ProvideRedisCache connects to Redis when enabled. It returns nil otherwise.
func ProvideRedisCache(cfg *config.Config, l *applogger.Logger) (*pkgcache.RedisCache, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, noCleanup, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisAddr(cfg.Redis.Addr),
		pkgcache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
		pkgcache.WithRedisPool(cfg.Redis.Pool.Size, cfg.Redis.Pool.MinIdle, cfg.Redis.Pool.Timeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, closeWith(l, "redis", rc.Close), nil
}

// ProvideCacheStore returns an in-process cache, layered over Redis when it is available.
// The cleanup stops only the memory layer; Redis has its own.
func ProvideCacheStore(cfg *config.Config, rc *pkgcache.RedisCache) (pkgcache.Store, func()) {
	mem := pkgcache.NewMemoryCache(
		pkgcache.WithMemoryMaxSize(256),
		pkgcache.WithMemoryDefaultTTL(cfg.Provider.CacheTTL),
	)
	cleanup := func() { _ = mem.Close() }
	if rc == nil {
		return mem, cleanup
	}
	return pkgcache.NewLayeredCache(mem, rc, cfg.Provider.CacheTTL/2), cleanup
}

// ProvideChainProvider puts the cache in front of the provider client.
func ProvideChainProvider(cfg *config.Config, client *tdameritrade.Client, store pkgcache.Store, l *applogger.Logger) repository.ChainProvider {
	if cfg.Provider.CacheTTL <= 0 {
		return client
	}
	return chaincache.NewChainCache(client, store, cfg.Provider.CacheTTL, l)
}

// ProvideClickHouseClient connects to ClickHouse when a host is configured. It returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if cfg.ClickHouse.Host == "" {
		return nil, noCleanup, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(10, 5, time.Hour),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, closeWith(l, "clickhouse", client.Close), nil
}

// ProvideSpreadStore creates the spreads table and returns the store, or nil without ClickHouse.
func ProvideSpreadStore(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (repository.SpreadStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewCHSpreadStore(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("spread store schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a producer when the kafka sink is selected. It returns nil otherwise.
func ProvideKafkaProducer(cfg *config.Config, l *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.HasSink(config.SinkKafka) {
		return nil, noCleanup, nil
	}
	producer, err := pkgkafka.NewProducer(cfg.Kafka.Topic,
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, closeWith(l, "kafka producer", producer.Close), nil
}

// ProvideSink fans scan results out to every sink named in output.sinks.
func ProvideSink(cfg *config.Config, store repository.SpreadStore, producer *pkgkafka.Producer, l *applogger.Logger) (repository.SpreadSink, func(), error) {
	var sinks []repository.SpreadSink
	for _, name := range cfg.Output.Sinks {
		switch name {
		case config.SinkCSV:
			sinks = append(sinks, internalrepo.NewCSVSink(cfg.Output.Dir))
		case config.SinkJSON:
			sinks = append(sinks, internalrepo.NewJSONSink(cfg.Output.Dir))
		case config.SinkClickHouse:
			if store == nil {
				return nil, nil, fmt.Errorf("sink %q: clickhouse is not configured", name)
			}
			sinks = append(sinks, internalrepo.NewStoreSink(store))
		case config.SinkKafka:
			if producer == nil {
				return nil, nil, fmt.Errorf("sink %q: kafka is not configured", name)
			}
			sinks = append(sinks, internalrepo.NewPublisherSink(internalrepo.NewKafkaSpreadPublisher(producer)))
		default:
			return nil, nil, fmt.Errorf("unknown sink %q", name)
		}
	}
	sink := internalrepo.NewMultiSink(sinks...)
	return sink, closeWith(l, "sinks", sink.Close), nil
}

// ProvideAnalyzer returns the spread engine.
func ProvideAnalyzer() domsvc.SpreadAnalyzer {
	return spreads.NewAnalyzer()
}

// ProvideSpreadScanner creates the scan use case.
func ProvideSpreadScanner(
	cfg *config.Config,
	provider repository.ChainProvider,
	analyzer domsvc.SpreadAnalyzer,
	sink repository.SpreadSink,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SpreadScanner {
	return usecase.NewSpreadScanner(provider, analyzer, sink, m, l,
		decimal.NewFromFloat(cfg.Threshold()), time.Now)
}

// ProvideQueue creates the scan queue with its job registered, or nil when disabled.
func ProvideQueue(cfg *config.Config, rc *pkgcache.RedisCache, scanner *usecase.SpreadScanner, l *applogger.Logger) *queue.RedisQueue {
	if !cfg.Queue.Enabled || rc == nil {
		return nil
	}
	q := queue.NewRedisQueue(l, queue.Config{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, rc.Client(), queue.WithKeyPrefix(cfg.Queue.Prefix))
	q.RegisterJob(usecase.NewScanJob(scanner))
	return q
}

// ProvideSpreadsHandler creates the HTTP handler.
func ProvideSpreadsHandler(
	cfg *config.Config,
	l *applogger.Logger,
	scanner *usecase.SpreadScanner,
	store repository.SpreadStore,
	lim *ratelimit.Limiter,
	q *queue.RedisQueue,
) *api.SpreadsEchoHandler {
	h := api.NewSpreadsEchoHandler(l, scanner, store, lim, api.RateLimit{
		Burst:     cfg.Server.RateLimit.Burst,
		PerSecond: cfg.Server.RateLimit.PerSecond,
	})
	if q != nil {
		h.SetQueue(q)
	}
	return h
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	scanner *usecase.SpreadScanner,
	handler *api.SpreadsEchoHandler,
	q *queue.RedisQueue,
) *server.App {
	return server.New(cfg, l, scanner, handler, server.WithQueue(q))
}

// closeWith adapts a Close method to a wire cleanup that logs failures.
func closeWith(l *applogger.Logger, name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			l.Warn("close error", applogger.String("resource", name), applogger.Error(err))
		}
	}
}
