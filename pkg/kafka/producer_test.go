package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewProducer("spreads")
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewProducer("", WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)
}

func TestNewProducer_AppliesOptions(t *testing.T) {
	p, err := NewProducer("spreads",
		WithBrokers([]string{"localhost:9092"}),
		WithCompression("zstd"),
		WithMaxAttempts(5),
		WithHashByKey(false),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "spreads", p.Topic())
	assert.Equal(t, 5, p.writer.MaxAttempts)
	assert.Equal(t, kafka.Zstd, p.writer.Compression)
	assert.IsType(t, &kafka.LeastBytes{}, p.writer.Balancer)
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = encodeValue(map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(b))

	_, err = encodeValue(make(chan int))
	assert.Error(t, err)
}

func TestToHeaders(t *testing.T) {
	assert.Nil(t, toHeaders(nil))
	h := toHeaders(map[string]string{"symbol": "SPY"})
	require.Len(t, h, 1)
	assert.Equal(t, "symbol", h[0].Key)
	assert.Equal(t, "SPY", string(h[0].Value))
}

func TestProducerConfigValidate(t *testing.T) {
	cfg := defaultProducerConfig()
	cfg.Brokers = []string{"localhost:9092"}
	require.NoError(t, cfg.validate("spreads"))

	cfg.RequiredAcks = 2
	assert.Error(t, cfg.validate("spreads"))
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("SNAPPY"))
	assert.Equal(t, kafka.Lz4, parseCompression("lz4"))
	assert.Equal(t, kafka.Gzip, parseCompression("brotli"))
}
