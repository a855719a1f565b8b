package events

import (
	"context"
	"encoding/json"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// TransactionEvent is published after a balance-affecting operation settles.
type TransactionEvent struct {
	TransactionID      string    `json:"transaction_id"`
	GroupID            string    `json:"group_id,omitempty"`
	UserID             string    `json:"user_id"`
	Type               string    `json:"type"`
	CoinID             string    `json:"coin_id"`
	Symbol             string    `json:"symbol"`
	Amount             string    `json:"amount"`
	Status             string    `json:"status"`
	IsPlatformTransfer bool      `json:"is_platform_transfer"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
}

const publishAttempts = 3

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) PublishTransaction(ctx context.Context, event TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}
	var lastErr error
	for attempt := 0; attempt < publishAttempts; attempt++ {
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			lastErr = err
			p.logger.WithError(err).WithFields(logrus.Fields{
				"attempt":        attempt + 1,
				"transaction_id": event.TransactionID,
			}).Warn("transaction event publish failed")
			continue
		}
		return nil
	}
	return lastErr
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher keeps the request path working when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransaction(context.Context, TransactionEvent) error {
	return nil
}
