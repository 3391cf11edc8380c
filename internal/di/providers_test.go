package di

import (
	"context"
	"io"
	"testing"

	"FinSpread/pkg/config"
	applogger "FinSpread/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestDisabledProvidersReturnUsableCleanups(t *testing.T) {
	cfg := testConfig(t)
	l := applogger.Nop()

	rc, cleanup, err := ProvideRedisCache(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, rc)
	cleanup()

	ch, cleanup, err := ProvideClickHouseClient(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, ch)
	cleanup()

	producer, cleanup, err := ProvideKafkaProducer(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, producer)
	cleanup()
}

func TestProvideKafkaProducerCleanupClosesWriter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Sinks = []string{config.SinkKafka}
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}

	producer, cleanup, err := ProvideKafkaProducer(cfg, applogger.Nop())
	require.NoError(t, err)
	require.NotNil(t, producer)

	cleanup()
	err = producer.Publish(context.Background(), []byte("SPY"), "x")
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestProvideSinkErrorsLeaveNothingToClean(t *testing.T) {
	cfg := testConfig(t)
	l := applogger.Nop()

	cfg.Output.Sinks = []string{config.SinkClickHouse}
	sink, cleanup, err := ProvideSink(cfg, nil, nil, l)
	require.Error(t, err)
	assert.Nil(t, sink)
	assert.Nil(t, cleanup)

	cfg.Output.Sinks = []string{config.SinkCSV, config.SinkJSON}
	sink, cleanup, err = ProvideSink(cfg, nil, nil, l)
	require.NoError(t, err)
	require.NotNil(t, sink)
	cleanup()
}

func TestProvideCacheStoreCleanup(t *testing.T) {
	cfg := testConfig(t)

	store, cleanup := ProvideCacheStore(cfg, nil)
	require.NotNil(t, store)
	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), cfg.Provider.CacheTTL))
	cleanup()
	cleanup()
}
