package broker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/events"
)

// ErrAlreadySubscribed indicates the queue already has a handler on this consumer.
var ErrAlreadySubscribed = apperrors.Wrap(apperrors.ErrConflict, "queue already subscribed")

// Handler processes one decoded event. A returned error dead-letters the delivery.
type Handler func(ctx context.Context, evt events.Event) error

// Outcome is the terminal state of a delivery.
type Outcome string

const (
	OutcomeAcked        Outcome = "acked"
	OutcomeDeadLettered Outcome = "dead_lettered"
	// OutcomeRequeued means the handler was interrupted by shutdown and the delivery went
	// back to its queue.
	OutcomeRequeued Outcome = "requeued"
	// OutcomeUnsettled means the ack or nack itself failed; the broker redelivers.
	OutcomeUnsettled Outcome = "unsettled"
)

const (
	defaultRestartDelay = 500 * time.Millisecond
	maxRestartDelay     = 10 * time.Second
)

// ReconnectingProvider is a ChannelProvider that notifies about new channels.
type ReconnectingProvider interface {
	ChannelProvider
	OnConnected(fn func(Channel))
}

type subscription struct {
	ctx     context.Context
	queue   string
	handler Handler

	mu  sync.Mutex
	ch  Channel
	tag string
}

// Consumer runs manual-ack delivery loops and re-subscribes them after reconnects.
type Consumer struct {
	conn     ReconnectingProvider
	topology *Topology
	registry *events.Registry
	metrics  Metrics
	logger   *slog.Logger

	mu   sync.Mutex
	subs map[string]*subscription
	wg   sync.WaitGroup

	restartDelay time.Duration
}

// NewConsumer creates a Consumer and hooks it into conn reconnects.
func NewConsumer(
	conn ReconnectingProvider,
	topology *Topology,
	registry *events.Registry,
	metrics Metrics,
	logger *slog.Logger,
) *Consumer {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Consumer{
		conn:     conn,
		topology: topology,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
		subs:     make(map[string]*subscription),

		restartDelay: defaultRestartDelay,
	}
	conn.OnConnected(c.resubscribe)
	return c
}

// Consume registers handler for queue and starts its delivery loop when a channel is
// available; otherwise the loop starts on the next successful connect. Topology and
// subscribe errors are returned and the registration is dropped. The subscription lives
// until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, queue string, handler Handler) error {
	sub := &subscription{ctx: ctx, queue: queue, handler: handler}

	c.mu.Lock()
	if _, exists := c.subs[queue]; exists {
		c.mu.Unlock()
		return apperrors.Wrapf(ErrAlreadySubscribed, "queue %q", queue)
	}
	c.subs[queue] = sub
	c.mu.Unlock()

	ch, ok := c.conn.Channel()
	if !ok {
		c.conn.Connect(ctx)
		ch, ok = c.conn.Channel()
	}
	if !ok {
		c.logger.Warn("broker channel not ready, subscription deferred", slog.String("queue", queue))
		return nil
	}

	if err := c.subscribe(sub, ch); err != nil {
		c.remove(sub)
		return err
	}
	return nil
}

// Wait blocks until every delivery loop has exited.
func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) resubscribe(ch Channel) {
	c.mu.Lock()
	subs := make([]*subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		if sub.ctx.Err() != nil {
			c.remove(sub)
			continue
		}
		if err := c.subscribe(sub, ch); err != nil {
			c.logger.Error("failed to resubscribe",
				slog.String("queue", sub.queue),
				slog.Any("error", err),
			)
		}
	}
}

func (c *Consumer) subscribe(sub *subscription, ch Channel) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.ch == ch {
		return nil
	}

	if err := c.topology.AssertQueueWithDeadLetter(ch, sub.queue); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return apperrors.Wrap(err, "failed to set prefetch")
	}

	tag := fmt.Sprintf("helpmatch-%s-%s", sub.queue, uuid.NewString())
	deliveries, err := ch.Consume(sub.queue, tag, false, false, false, false, nil)
	if err != nil {
		return apperrors.Wrapf(err, "failed to consume queue %q", sub.queue)
	}
	sub.ch = ch
	sub.tag = tag

	c.logger.Info("consumer subscribed", slog.String("queue", sub.queue), slog.String("tag", tag))

	c.wg.Add(1)
	go c.loop(sub, ch, tag, deliveries)
	return nil
}

func (c *Consumer) loop(sub *subscription, ch Channel, tag string, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-sub.ctx.Done():
			c.stop(sub, ch, tag, deliveries)
			return
		case d, ok := <-deliveries:
			if !ok {
				c.deliveriesClosed(sub, ch)
				return
			}
			if sub.ctx.Err() != nil {
				_ = d.Nack(false, true)
				c.stop(sub, ch, tag, deliveries)
				return
			}
			outcome := c.process(sub.ctx, sub.queue, sub.handler, d)
			c.logger.Debug("delivery settled",
				slog.String("queue", sub.queue),
				slog.String("message_id", d.MessageId),
				slog.String("outcome", string(outcome)),
			)
		}
	}
}

// stop cancels the broker consumer and hands every delivery still buffered for it back
// to the queue.
func (c *Consumer) stop(sub *subscription, ch Channel, tag string, deliveries <-chan amqp.Delivery) {
	c.remove(sub)
	if err := ch.Cancel(tag, false); err == nil {
		for d := range deliveries {
			_ = d.Nack(false, true)
		}
	}
	c.logger.Info("consumer stopped", slog.String("queue", sub.queue))
}

// deliveriesClosed handles a delivery channel closing underneath a live subscription. A
// channel or connection close is left to the reconnect path; a broker-side consumer cancel
// on a still-open channel (queue deleted, broker flushed) restarts the subscription here.
func (c *Consumer) deliveriesClosed(sub *subscription, ch Channel) {
	if sub.ctx.Err() != nil {
		c.remove(sub)
		return
	}

	sub.mu.Lock()
	if sub.ch == ch {
		sub.ch = nil
		sub.tag = ""
	}
	sub.mu.Unlock()

	if current, ok := c.conn.Channel(); !ok || current != ch {
		c.logger.Warn("delivery channel closed, waiting for reconnect", slog.String("queue", sub.queue))
		return
	}

	c.logger.Warn("consumer cancelled by broker, resubscribing", slog.String("queue", sub.queue))
	c.wg.Add(1)
	go c.restart(sub, ch)
}

func (c *Consumer) restart(sub *subscription, ch Channel) {
	defer c.wg.Done()

	delay := c.restartDelay
	for {
		if current, ok := c.conn.Channel(); !ok || current != ch {
			return
		}

		err := c.subscribe(sub, ch)
		if err == nil || apperrors.Is(err, amqp.ErrClosed) {
			return
		}
		c.logger.Error("failed to resubscribe after consumer cancel",
			slog.String("queue", sub.queue),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		t := time.NewTimer(delay)
		select {
		case <-sub.ctx.Done():
			t.Stop()
			c.remove(sub)
			return
		case <-t.C:
		}
		delay = min(delay*2, maxRestartDelay)
	}
}

// process settles one delivery: malformed payloads and failed handlers are rejected
// without requeue so the broker dead-letters them; everything else is acked.
func (c *Consumer) process(ctx context.Context, queue string, handler Handler, d amqp.Delivery) Outcome {
	name := d.Type
	if name == "" {
		name = queue
	}

	evt, err := c.registry.Decode(name, d.Body)
	if err != nil {
		c.logger.Warn("rejecting malformed message",
			slog.String("queue", queue),
			slog.String("event", name),
			slog.String("body", string(d.Body)),
			slog.Any("error", err),
		)
		return c.reject(ctx, queue, d, ReasonMalformed)
	}

	if err := invoke(ctx, handler, evt); err != nil {
		if ctx.Err() != nil {
			return c.requeue(queue, d, err)
		}
		c.logger.Error("handler failed, rejecting message",
			slog.String("queue", queue),
			slog.String("event", name),
			slog.String("message_id", d.MessageId),
			slog.Any("error", err),
		)
		return c.reject(ctx, queue, d, ReasonHandlerError)
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("failed to ack message", slog.String("queue", queue), slog.Any("error", err))
		return OutcomeUnsettled
	}
	c.metrics.RecordProcessed(ctx, queue)
	return OutcomeAcked
}

func (c *Consumer) reject(ctx context.Context, queue string, d amqp.Delivery, reason string) Outcome {
	if err := d.Nack(false, false); err != nil {
		c.logger.Error("failed to reject message", slog.String("queue", queue), slog.Any("error", err))
		return OutcomeUnsettled
	}
	c.metrics.RecordDeadLettered(ctx, queue, reason)
	return OutcomeDeadLettered
}

// requeue returns a delivery whose handler was interrupted by shutdown to its queue.
func (c *Consumer) requeue(queue string, d amqp.Delivery, cause error) Outcome {
	c.logger.Warn("handler interrupted by shutdown, requeueing message",
		slog.String("queue", queue),
		slog.String("message_id", d.MessageId),
		slog.Any("error", cause),
	)
	if err := d.Nack(false, true); err != nil {
		c.logger.Error("failed to requeue message", slog.String("queue", queue), slog.Any("error", err))
		return OutcomeUnsettled
	}
	return OutcomeRequeued
}

func (c *Consumer) remove(sub *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs[sub.queue] == sub {
		delete(c.subs, sub.queue)
	}
}

func invoke(ctx context.Context, handler Handler, evt events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, evt)
}
