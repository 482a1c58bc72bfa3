package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/events"
)

const contentTypeJSON = "application/json"

// RawMessage is a pre-encoded message published as-is.
type RawMessage struct {
	Body        []byte
	ContentType string
	Type        string
	Priority    uint8
	MessageID   string
	Headers     amqp.Table
}

// Publisher publishes persistent, priority-tagged messages to the default exchange.
type Publisher struct {
	conn     ChannelProvider
	topology *Topology
	metrics  Metrics
	logger   *slog.Logger
}

// NewPublisher creates a Publisher.
func NewPublisher(conn ChannelProvider, topology *Topology, metrics Metrics, logger *slog.Logger) *Publisher {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{conn: conn, topology: topology, metrics: metrics, logger: logger}
}

// Publish encodes evt as JSON and publishes it to queue with a priority derived from the
// event urgency. True means the message was handed to the channel; without publisher
// confirms it is not a broker acknowledgement. Failures are logged and reported as false.
func (p *Publisher) Publish(ctx context.Context, queue string, evt events.Event) bool {
	ch, ok := p.channel(ctx)
	if !ok {
		p.logger.Warn("dropping message, broker channel not ready",
			slog.String("queue", queue),
			slog.String("event", evt.EventName()),
		)
		p.metrics.RecordDropped(ctx, queue)
		return false
	}

	if err := p.topology.AssertQueueWithDeadLetter(ch, queue); err != nil {
		p.logger.Error("failed to assert queue topology",
			slog.String("queue", queue),
			slog.Any("error", err),
		)
		return false
	}

	priority := PriorityForUrgency(events.Urgency(evt))

	body, err := events.Encode(evt)
	if err != nil {
		p.logger.Error("failed to encode event",
			slog.String("queue", queue),
			slog.String("event", evt.EventName()),
			slog.Any("error", err),
		)
		return false
	}

	msgID, err := uuid.NewV7()
	if err != nil {
		p.logger.Error("failed to generate message id", slog.Any("error", err))
		return false
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Priority:     priority,
		Type:         evt.EventName(),
		MessageId:    msgID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.logger.Error("failed to publish message",
			slog.String("queue", queue),
			slog.String("event", evt.EventName()),
			slog.Any("error", err),
		)
		return false
	}

	p.metrics.RecordPublished(ctx, queue, priority)
	p.logger.Debug("message published",
		slog.String("queue", queue),
		slog.String("event", evt.EventName()),
		slog.String("message_id", msgID.String()),
		slog.Int("priority", int(priority)),
	)
	return true
}

// PublishRaw publishes msg to queue unchanged, asserting the topology first.
func (p *Publisher) PublishRaw(ctx context.Context, queue string, msg RawMessage) error {
	ch, ok := p.channel(ctx)
	if !ok {
		p.metrics.RecordDropped(ctx, queue)
		return ErrChannelNotReady
	}

	if err := p.topology.AssertQueueWithDeadLetter(ch, queue); err != nil {
		return err
	}

	priority := msg.Priority
	if priority == 0 {
		priority = DefaultPriority
	}
	messageID := msg.MessageID
	if messageID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return apperrors.Wrap(err, "failed to generate message id")
		}
		messageID = id.String()
	}

	err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		Headers:      msg.Headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		Priority:     priority,
		Type:         msg.Type,
		MessageId:    messageID,
		Timestamp:    time.Now().UTC(),
		Body:         msg.Body,
	})
	if err != nil {
		return apperrors.Wrapf(err, "failed to publish to queue %q", queue)
	}

	p.metrics.RecordPublished(ctx, queue, priority)
	return nil
}

// channel returns the current channel, attempting one connect when none is available.
func (p *Publisher) channel(ctx context.Context) (Channel, bool) {
	if ch, ok := p.conn.Channel(); ok {
		return ch, true
	}
	p.conn.Connect(ctx)
	return p.conn.Channel()
}
