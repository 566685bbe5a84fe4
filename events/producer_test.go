package events

import (
	"context"
	"encoding/json"
	"errors"
	"movehub-backend/models"
	"movehub-backend/utils/logger"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() models.StatusEvent {
	price := int64(550000)
	return models.StatusEvent{
		Type:       models.EventQuoteNegotiated,
		EntityID:   "q-1",
		RequestID:  "r-1",
		From:       "PENDING",
		To:         "NEGOTIATING",
		Actor:      "customer",
		Price:      &price,
		OccurredAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherSendsKeyedEvent(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "q-1" {
			return errors.New("unexpected key " + string(key))
		}
		if msg.Topic != "movehub.events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got models.StatusEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got.Type != models.EventQuoteNegotiated || got.Price == nil || *got.Price != 550000 {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewKafkaPublisher(sp, "movehub.events", logger.NewLogger("error", "json"))
	require.NoError(t, p.Publish(context.Background(), testEvent()))
	require.NoError(t, p.Close())
}

func TestKafkaPublisherReturnsSendError(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisher(sp, "movehub.events", logger.NewLogger("error", "json"))
	err := p.Publish(context.Background(), testEvent())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestProducerTopic(t *testing.T) {
	p := Producer[models.StatusEvent]{Topic: "movehub.events"}
	assert.Equal(t, "movehub.events", p.GetTopic())
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = LogPublisher{Log: logger.NewLogger("error", "json")}
	assert.NoError(t, p.Publish(context.Background(), testEvent()))
	assert.NoError(t, p.Close())
}
