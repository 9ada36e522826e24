// Package eventbus builds the watermill publisher/subscriber pair used for
// in-process and cross-process bot events.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// Backends.
const (
	BackendGoChannel = "gochannel"
	BackendNATS      = "nats"
)

// Config selects and configures the transport.
type Config struct {
	Backend    string
	NATSURL    string
	JetStream  bool
	QueueGroup string
}

// EventBus is a message.Publisher and message.Subscriber over one transport.
type EventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	closers    []func() error
}

// New connects the configured transport.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	switch cfg.Backend {
	case "", BackendGoChannel:
		ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		logger.InfoContext(ctx, "Event bus using in-process channels")
		return &EventBus{publisher: ps, subscriber: ps, logger: logger, closers: []func() error{ps.Close}}, nil
	case BackendNATS:
		return newNATS(ctx, cfg, logger, wmLogger)
	default:
		return nil, fmt.Errorf("unknown event bus backend %q", cfg.Backend)
	}
}

func newNATS(ctx context.Context, cfg Config, logger *slog.Logger, wmLogger watermill.LoggerAdapter) (*EventBus, error) {
	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
	}

	jsConfig := nats.JetStreamConfig{Disabled: true}
	if cfg.JetStream {
		if err := EnsureStream(ctx, cfg.NATSURL, logger); err != nil {
			return nil, err
		}
		jsConfig = nats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    false,
			SubscribeOptions: []nc.SubOpt{nc.DeliverNew(), nc.AckExplicit()},
		}
	}

	marshaler := &nats.NATSMarshaler{}
	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:               cfg.NATSURL,
			NatsOptions:       options,
			Marshaler:         marshaler,
			JetStream:         jsConfig,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:               cfg.NATSURL,
			QueueGroupPrefix:  cfg.QueueGroup,
			CloseTimeout:      30 * time.Second,
			AckWaitTimeout:    30 * time.Second,
			NatsOptions:       options,
			Unmarshaler:       marshaler,
			JetStream:         jsConfig,
			SubjectCalculator: nats.DefaultSubjectCalculator,
		},
		wmLogger,
	)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Event bus connected to NATS",
		attr.String("url", cfg.NATSURL),
		attr.Any("jetstream", cfg.JetStream),
	)
	return &EventBus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		closers:    []func() error{publisher.Close, subscriber.Close},
	}, nil
}

// Publish implements message.Publisher.
func (b *EventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := b.publisher.Publish(topic, messages...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe implements message.Subscriber.
func (b *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return ch, nil
}

// Close closes the underlying transport.
func (b *EventBus) Close() error {
	var firstErr error
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NewJSONMessage encodes payload as a watermill message carrying the context
// correlation ID.
func NewJSONMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	correlationID := attr.CorrelationID(ctx)
	if correlationID == "" {
		correlationID = watermill.NewShortUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	return msg, nil
}

// DecodeJSON decodes a message payload into T.
func DecodeJSON[T any](msg *message.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload of message %s: %w", msg.UUID, err)
	}
	return &payload, nil
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)
