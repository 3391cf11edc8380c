package repository

import (
	"context"
	"time"

	"FinSpread/internal/domain/models"
	pkgkafka "FinSpread/pkg/kafka"
)

// SpreadEvent is the Kafka payload for one surviving spread.
type SpreadEvent struct {
	Symbol     string              `json:"symbol"`
	OptionType models.OptionType   `json:"optionType"`
	RunAt      time.Time           `json:"runAt"`
	Rank       int                 `json:"rank"`
	Spread     models.SpreadRecord `json:"spread"`
}

// KafkaSpreadPublisher publishes one message per spread keyed by symbol.
type KafkaSpreadPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaSpreadPublisher(producer *pkgkafka.Producer) *KafkaSpreadPublisher {
	return &KafkaSpreadPublisher{producer: producer}
}

func (p *KafkaSpreadPublisher) Publish(ctx context.Context, res *models.ScanResult) error {
	return p.producer.PublishBatch(ctx, spreadMessages(res))
}

func spreadMessages(res *models.ScanResult) []pkgkafka.Message {
	if len(res.Spreads) == 0 {
		return nil
	}
	key := []byte(res.Symbol)
	headers := map[string]string{
		"symbol":      res.Symbol,
		"option_type": string(res.OptionType),
	}
	msgs := make([]pkgkafka.Message, len(res.Spreads))
	for i, r := range res.Spreads {
		msgs[i] = pkgkafka.Message{
			Key:     key,
			Headers: headers,
			Value: SpreadEvent{
				Symbol:     res.Symbol,
				OptionType: res.OptionType,
				RunAt:      res.RunAt,
				Rank:       i,
				Spread:     r,
			},
		}
	}
	return msgs
}

// Close is a no-op; the producer is owned by the application.
func (p *KafkaSpreadPublisher) Close() error { return nil }
