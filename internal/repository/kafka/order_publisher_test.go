package kafka

import (
	"context"
	"easyShop/domain"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOrderCreated(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.OrderID != 42 || event.LineItems != 2 {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	publisher := NewOrderEventPublisher(producer, "easyshop.orders")
	err := publisher.PublishOrderCreated(context.Background(), domain.OrderCreatedEvent{
		EventID:    "evt-1",
		OrderID:    42,
		UserID:     3,
		OrderDate:  "2026-10-19",
		LineItems:  2,
		Total:      decimal.RequireFromString("25.50"),
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestPublishOrderCreated_BrokerFailure(t *testing.T) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, config)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOrderEventPublisher(producer, "easyshop.orders")
	err := publisher.PublishOrderCreated(context.Background(), domain.OrderCreatedEvent{OrderID: 1})

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, publisher.Close())
}
