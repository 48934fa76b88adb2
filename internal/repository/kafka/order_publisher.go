package kafka

import (
	"context"
	"easyShop/domain"
	"easyShop/pkg/logger"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

type OrderEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	return producer, nil
}

func NewOrderEventPublisher(producer sarama.SyncProducer, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

// PublishOrderCreated keys messages by user so one user's orders stay on a
// single partition.
func (p *OrderEventPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.UserID), 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte("order.created")},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send order event: %w", err)
	}
	logger.Debug("Order event published", "order_id", event.OrderID, "partition", partition, "offset", offset)

	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.producer.Close()
}
