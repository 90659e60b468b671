package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Config selects and configures the message backend.
type Config struct {
	// URL of the NATS server. Empty means an in-process channel is used.
	URL string
	// Stream, when set, is a JetStream stream that retains published messages.
	Stream string
}

// EventBus publishes and subscribes to tournament notifications over NATS
// or, without a NATS URL, over an in-process Go channel.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	natsConn   *nc.Conn
	js         jetstream.JetStream
	logger     *slog.Logger
	backend    string
}

// NewEventBus connects to the configured backend.
func NewEventBus(ctx context.Context, cfg Config, logger *slog.Logger) (*EventBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watermillLogger := watermill.NewSlogLogger(logger)

	if cfg.URL == "" {
		logger.InfoContext(ctx, "No NATS URL configured, using in-process event bus")
		pubSub := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
			Persistent:          true,
		}, watermillLogger)
		return &EventBus{
			publisher:  pubSub,
			subscriber: pubSub,
			logger:     logger,
			backend:    "gochannel",
		}, nil
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{
		Disabled: cfg.Stream == "",
	}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Marshaler:   marshaler,
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:         cfg.URL,
			NatsOptions: options,
			Unmarshaler: marshaler,
			JetStream:   jsConfig,
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	eb := &EventBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		backend:    "nats",
	}

	if cfg.Stream != "" {
		natsConn, err := nc.Connect(cfg.URL, options...)
		if err != nil {
			eb.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		js, err := jetstream.New(natsConn)
		if err != nil {
			natsConn.Close()
			eb.Close()
			return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
		}
		eb.natsConn = natsConn
		eb.js = js
	}

	return eb, nil
}

// Backend reports which transport is in use.
func (eb *EventBus) Backend() string {
	return eb.backend
}

// Publish implements message.Publisher.
func (eb *EventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
		)
	}
	if err := eb.publisher.Publish(topic, msgs...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe implements message.Subscriber.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return messages, nil
}

// Close closes all NATS and Watermill resources.
func (eb *EventBus) Close() error {
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			eb.logger.Error("Error closing publisher", "error", err)
		}
	}
	// gochannel uses one value for both sides.
	if eb.subscriber != nil && eb.backend != "gochannel" {
		if err := eb.subscriber.Close(); err != nil {
			eb.logger.Error("Error closing subscriber", "error", err)
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return nil
}

// NewJSONMessage encodes payload into a message carrying the correlation ID.
func NewJSONMessage(correlationID string, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg.Metadata.Set(middleware.CorrelationIDMetadataKey, correlationID)
	msg.Metadata.Set("content_type", "application/json")
	return msg, nil
}
