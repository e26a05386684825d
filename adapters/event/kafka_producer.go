package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/devlinks/internal/application/service"
	"github.com/khoahotran/devlinks/internal/config"
	"github.com/khoahotran/devlinks/pkg/logger"
)

const (
	TopicProfileEvents = "profile.events"
	TopicViewEvents    = "view.events"
)

const (
	EventTypeProfileSaved  = "profile.saved"
	EventTypeProfileViewed = "profile.viewed"
)

// Envelope is the JSON value written to every topic.
type Envelope struct {
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	ProfileEventsWriter messageWriter
	ViewEventsWriter    messageWriter
	logger              logger.Logger
}

var _ service.EventPublisher = (*KafkaProducerClient)(nil)

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'profile.events'
	profileWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicProfileEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	// writer 'view.events'
	viewWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicViewEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		ProfileEventsWriter: profileWriter,
		ViewEventsWriter:    viewWriter,
		logger:              log,
	}, nil
}

func (c *KafkaProducerClient) PublishProfileSaved(ctx context.Context, e service.ProfileSavedEvent) error {
	return publish(ctx, c.ProfileEventsWriter, EventTypeProfileSaved, e.OwnerID.String(), e)
}

func (c *KafkaProducerClient) PublishProfileViewed(ctx context.Context, e service.ProfileViewedEvent) error {
	return publish(ctx, c.ViewEventsWriter, EventTypeProfileViewed, e.OwnerID.String(), e)
}

func publish(ctx context.Context, w messageWriter, eventType, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	value, err := json.Marshal(Envelope{EventType: eventType, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", eventType, err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("failed to write %s message: %w", eventType, err)
	}
	return nil
}

// DecodeProfileViewed reads a view.events message value.
func DecodeProfileViewed(value []byte) (service.ProfileViewedEvent, error) {
	var env Envelope
	var e service.ProfileViewedEvent
	if err := json.Unmarshal(value, &env); err != nil {
		return e, fmt.Errorf("invalid envelope: %w", err)
	}
	if env.EventType != EventTypeProfileViewed {
		return e, fmt.Errorf("unexpected event type %q", env.EventType)
	}
	if err := json.Unmarshal(env.Payload, &e); err != nil {
		return e, fmt.Errorf("invalid %s payload: %w", env.EventType, err)
	}
	return e, nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
	if c.ViewEventsWriter != nil {
		c.ViewEventsWriter.Close()
	}
	c.logger.Info("Closed Kafka Producers")
}
