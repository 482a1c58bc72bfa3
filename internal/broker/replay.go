package broker

import (
	"context"
	"log/slog"

	apperrors "github.com/allisson/helpmatch/internal/errors"
)

// Replayer moves dead-lettered messages back onto their primary queue.
type Replayer struct {
	conn      ChannelProvider
	publisher *Publisher
	logger    *slog.Logger
}

// NewReplayer creates a Replayer.
func NewReplayer(conn ChannelProvider, publisher *Publisher, logger *slog.Logger) *Replayer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Replayer{conn: conn, publisher: publisher, logger: logger}
}

// Replay pulls up to limit messages from <queue>.dlq and republishes each one to queue,
// keeping body, type, content type, priority and headers. A dead-lettered copy is acked
// only after its republish succeeded. It returns the number of replayed messages.
func (r *Replayer) Replay(ctx context.Context, queue string, limit int) (int, error) {
	if limit < 1 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be positive")
	}

	ch, ok := r.conn.Channel()
	if !ok {
		r.conn.Connect(ctx)
		ch, ok = r.conn.Channel()
	}
	if !ok {
		return 0, ErrChannelNotReady
	}

	if err := r.publisher.topology.AssertQueueWithDeadLetter(ch, queue); err != nil {
		return 0, err
	}

	dlq := DeadLetterQueueName(queue)
	replayed := 0
	for replayed < limit {
		if err := ctx.Err(); err != nil {
			return replayed, err
		}

		d, ok, err := ch.Get(dlq, false)
		if err != nil {
			return replayed, apperrors.Wrapf(err, "failed to get from queue %q", dlq)
		}
		if !ok {
			break
		}

		err = r.publisher.PublishRaw(ctx, queue, RawMessage{
			Body:        d.Body,
			ContentType: d.ContentType,
			Type:        d.Type,
			Priority:    d.Priority,
			MessageID:   d.MessageId,
			Headers:     d.Headers,
		})
		if err != nil {
			_ = d.Nack(false, true)
			return replayed, err
		}
		if err := d.Ack(false); err != nil {
			return replayed, apperrors.Wrap(err, "failed to ack dead-lettered message")
		}
		replayed++
	}

	r.logger.Info("dead-lettered messages replayed",
		slog.String("queue", queue),
		slog.Int("count", replayed),
	)
	return replayed, nil
}
