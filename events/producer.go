package events

import (
	"context"
	"encoding/json"
	"fmt"
	"movehub-backend/models"
	"movehub-backend/utils/logger"

	"github.com/IBM/sarama"
)

// Publisher emits domain status events. Publishing never blocks a state change:
// callers log the error and carry on.
type Publisher interface {
	Publish(ctx context.Context, event models.StatusEvent) error
	Close() error
}

// Producer sends events of one type to one topic, keyed by the event id
type Producer[T models.Event] struct {
	Producer sarama.SyncProducer
	Topic    string
	Log      logger.Logger
}

func (p *Producer[T]) GetTopic() string {
	return p.Topic
}

func (p *Producer[T]) Send(event T) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Errorf("Failed to marshal event %s: %v", event.GetId(), err)
		return err
	}

	message := &sarama.ProducerMessage{
		Topic: p.Topic,
		Key:   sarama.StringEncoder(event.GetId()),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.Producer.SendMessage(message)
	if err != nil {
		p.Log.Errorf("Failed to send event %s to %s: %v", event.GetId(), p.Topic, err)
		return err
	}

	p.Log.Debugf("Event %s sent to %s[%d]@%d", event.GetId(), p.Topic, partition, offset)
	return nil
}

// KafkaPublisher publishes status events through a sarama sync producer
type KafkaPublisher struct {
	status Producer[models.StatusEvent]
}

// NewSyncProducer dials the brokers
func NewSyncProducer(cfg models.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		status: Producer[models.StatusEvent]{
			Producer: producer,
			Topic:    topic,
			Log:      log,
		},
	}
}

func (k *KafkaPublisher) Publish(_ context.Context, event models.StatusEvent) error {
	return k.status.Send(event)
}

func (k *KafkaPublisher) Close() error {
	return k.status.Producer.Close()
}

// LogPublisher is used when kafka is disabled
type LogPublisher struct {
	Log logger.Logger
}

func (l LogPublisher) Publish(_ context.Context, event models.StatusEvent) error {
	l.Log.Debugf("event %s %s: %s -> %s", event.Type, event.EntityID, event.From, event.To)
	return nil
}

func (LogPublisher) Close() error { return nil }
