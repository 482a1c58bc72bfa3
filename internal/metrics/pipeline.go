package metrics

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics counts messages moving through the broker pipeline. It satisfies the
// broker's Metrics interface.
type PipelineMetrics struct {
	published    metric.Int64Counter
	processed    metric.Int64Counter
	deadLettered metric.Int64Counter
	dropped      metric.Int64Counter
}

// NewPipelineMetrics creates the message counters prefixed by namespace.
func NewPipelineMetrics(meterProvider metric.MeterProvider, namespace string) (*PipelineMetrics, error) {
	meter := meterProvider.Meter(namespace)

	published, err := meter.Int64Counter(
		fmt.Sprintf("%s_messages_published_total", namespace),
		metric.WithDescription("Total number of messages accepted by the broker"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create published counter: %w", err)
	}

	processed, err := meter.Int64Counter(
		fmt.Sprintf("%s_messages_processed_total", namespace),
		metric.WithDescription("Total number of messages handled and acknowledged"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create processed counter: %w", err)
	}

	deadLettered, err := meter.Int64Counter(
		fmt.Sprintf("%s_messages_dead_lettered_total", namespace),
		metric.WithDescription("Total number of messages rejected to the dead-letter queue"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dead-lettered counter: %w", err)
	}

	dropped, err := meter.Int64Counter(
		fmt.Sprintf("%s_messages_dropped_total", namespace),
		metric.WithDescription("Total number of messages dropped because no broker channel was available"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dropped counter: %w", err)
	}

	return &PipelineMetrics{
		published:    published,
		processed:    processed,
		deadLettered: deadLettered,
		dropped:      dropped,
	}, nil
}

func (p *PipelineMetrics) RecordPublished(ctx context.Context, queue string, priority uint8) {
	p.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("queue", queue),
		attribute.String("priority", strconv.Itoa(int(priority))),
	))
}

func (p *PipelineMetrics) RecordProcessed(ctx context.Context, queue string) {
	p.processed.Add(ctx, 1, metric.WithAttributes(attribute.String("queue", queue)))
}

func (p *PipelineMetrics) RecordDeadLettered(ctx context.Context, queue, reason string) {
	p.deadLettered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("queue", queue),
		attribute.String("reason", reason),
	))
}

func (p *PipelineMetrics) RecordDropped(ctx context.Context, queue string) {
	p.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("queue", queue)))
}
