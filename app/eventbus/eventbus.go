package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Black-And-White-Club/lastman/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/nats-io/nkeys"
)

// CorrelationIDKey is the metadata key carrying the request correlation id.
const CorrelationIDKey = "correlation_id"

// EventBus publishes and subscribes to JetStream subjects through Watermill.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, streamName string, subjects ...string) error
	// Publisher and Subscriber expose the raw Watermill halves for a router.
	Publisher() message.Publisher
	Subscriber() message.Subscriber
}

// eventBus implements the EventBus interface.
type eventBus struct {
	publisher      message.Publisher
	subscriber     message.Subscriber
	js             jetstream.JetStream
	natsConn       *nc.Conn
	logger         *slog.Logger
	createdStreams map[string]bool
	streamMutex    sync.Mutex
}

// Options configures NewEventBus.
type Options struct {
	URL string
	// NKeySeed authenticates the connection when set.
	NKeySeed string
	// ConsumerGroup names the durable JetStream consumers and queue group.
	ConsumerGroup string
}

// natsOptions returns the connection options shared by the raw connection
// and the Watermill publisher and subscriber.
func natsOptions(opts Options) ([]nc.Option, error) {
	out := []nc.Option{
		nc.Name("lastman"),
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
	}
	if opts.NKeySeed == "" {
		return out, nil
	}
	kp, err := nkeys.FromSeed([]byte(opts.NKeySeed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive NATS nkey public key: %w", err)
	}
	return append(out, nc.Nkey(pub, kp.Sign)), nil
}

// NewEventBus creates and returns an EventBus with a connection to NATS JetStream.
func NewEventBus(ctx context.Context, opts Options, logger *slog.Logger) (EventBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ConsumerGroup == "" {
		opts.ConsumerGroup = StreamName
	}
	connOpts, err := natsOptions(opts)
	if err != nil {
		return nil, err
	}

	natsConn, err := nc.Connect(opts.URL, connOpts...)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to NATS", attr.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to initialize JetStream", attr.Error(err))
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:         opts.URL,
			NatsOptions: connOpts,
			Marshaler:   marshaler,
			JetStream: wmnats.JetStreamConfig{
				AutoProvision: false,
				TrackMsgId:    true,
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:              opts.URL,
			QueueGroupPrefix: opts.ConsumerGroup,
			SubscribersCount: 1,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     10 * time.Second,
			NatsOptions:      connOpts,
			Unmarshaler:      marshaler,
			JetStream: wmnats.JetStreamConfig{
				AutoProvision: false,
				DurablePrefix: opts.ConsumerGroup,
				SubscribeOptions: []nc.SubOpt{
					nc.DeliverAll(),
					nc.AckExplicit(),
				},
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		publisher.Close()
		logger.ErrorContext(ctx, "Failed to create Watermill subscriber", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

func (eb *eventBus) Publisher() message.Publisher   { return eb.publisher }
func (eb *eventBus) Subscriber() message.Subscriber { return eb.subscriber }

// Publish sends messages to topic. Messages without a UUID get one.
func (eb *eventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	if err := eb.publisher.Publish(topic, msgs...); err != nil {
		eb.logger.Error("Failed to publish message",
			attr.String("topic", topic),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	eb.logger.Debug("Messages published",
		attr.String("topic", topic),
		attr.Int("count", len(msgs)),
	)
	return nil
}

func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.InfoContext(ctx, "Subscribing to subject", attr.String("subject", topic))
	messages, err := eb.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to subject %s: %w", topic, err)
	}
	return messages, nil
}

// CreateStream ensures streamName exists and covers subjects, adding any
// missing subject to an existing stream.
func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	stream, err := eb.js.Stream(ctx, streamName)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:      streamName,
			Subjects:  subjects,
			Retention: jetstream.LimitsPolicy,
			Storage:   jetstream.FileStorage,
			MaxAge:    7 * 24 * time.Hour,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		eb.logger.InfoContext(ctx, "Stream created", attr.String("stream_name", streamName))

	case err != nil:
		return fmt.Errorf("failed to check if stream exists: %w", err)

	default:
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		merged, changed := mergeSubjects(info.Config.Subjects, subjects)
		if changed {
			info.Config.Subjects = merged
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream with new subjects: %w", err)
			}
			eb.logger.InfoContext(ctx, "Stream updated with new subjects", attr.String("stream_name", streamName))
		}
	}

	eb.createdStreams[streamName] = true
	return nil
}

// mergeSubjects appends the wanted subjects missing from existing.
func mergeSubjects(existing, wanted []string) ([]string, bool) {
	merged := slices.Clone(existing)
	changed := false
	for _, s := range wanted {
		if !slices.Contains(merged, s) {
			merged = append(merged, s)
			changed = true
		}
	}
	return merged, changed
}

// Close closes all NATS and Watermill resources.
func (eb *eventBus) Close() error {
	var errs []error
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing publisher: %w", err))
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing subscriber: %w", err))
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return errors.Join(errs...)
}

// NewMessage marshals payload as JSON into a message carrying the context's
// correlation id.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(CorrelationIDKey, id)
	}
	return msg, nil
}

// MessageContext returns ctx carrying the message's correlation id.
func MessageContext(ctx context.Context, msg *message.Message) context.Context {
	if id := msg.Metadata.Get(CorrelationIDKey); id != "" {
		return attr.WithCorrelationID(ctx, id)
	}
	return ctx
}
