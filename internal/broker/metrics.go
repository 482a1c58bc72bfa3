package broker

import "context"

// Dead-letter reasons reported to Metrics.
const (
	ReasonMalformed    = "malformed"
	ReasonHandlerError = "handler_error"
)

// Metrics receives pipeline counters.
type Metrics interface {
	RecordPublished(ctx context.Context, queue string, priority uint8)
	RecordProcessed(ctx context.Context, queue string)
	RecordDeadLettered(ctx context.Context, queue, reason string)
	RecordDropped(ctx context.Context, queue string)
}

// NoopMetrics discards all counters.
type NoopMetrics struct{}

func (NoopMetrics) RecordPublished(context.Context, string, uint8)     {}
func (NoopMetrics) RecordProcessed(context.Context, string)            {}
func (NoopMetrics) RecordDeadLettered(context.Context, string, string) {}
func (NoopMetrics) RecordDropped(context.Context, string)              {}
