package broker

import (
	amqp "github.com/rabbitmq/amqp091-go"

	apperrors "github.com/allisson/helpmatch/internal/errors"
)

const deadLetterSuffix = ".dlq"

// ErrTopologyConflict indicates a queue already exists with incompatible arguments.
var ErrTopologyConflict = apperrors.Wrap(apperrors.ErrConflict, "queue topology conflict")

// DeadLetterQueueName returns the dead-letter queue paired with queue.
func DeadLetterQueueName(queue string) string {
	return queue + deadLetterSuffix
}

// Topology declares durable queues paired with a dead-letter queue.
type Topology struct {
	maxPriority int
}

// NewTopology creates a Topology. A maxPriority of zero declares queues without priority support.
func NewTopology(maxPriority int) *Topology {
	if maxPriority < 0 {
		maxPriority = 0
	}
	if maxPriority > 255 {
		maxPriority = 255
	}
	return &Topology{maxPriority: maxPriority}
}

// Arguments returns the declaration arguments of the primary queue.
func (t *Topology) Arguments(queue string) amqp.Table {
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueueName(queue),
	}
	if t.maxPriority > 0 {
		args["x-max-priority"] = int32(t.maxPriority)
	}
	return args
}

// AssertQueueWithDeadLetter declares <queue>.dlq and then <queue>, routing rejected
// messages of the latter into the former through the default exchange. Declaring the
// same topology again is a no-op.
func (t *Topology) AssertQueueWithDeadLetter(ch Channel, queue string) error {
	dlq := DeadLetterQueueName(queue)
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return declareError(err, dlq)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, t.Arguments(queue)); err != nil {
		return declareError(err, queue)
	}
	return nil
}

func declareError(err error, queue string) error {
	var amqpErr *amqp.Error
	if apperrors.As(err, &amqpErr) && amqpErr.Code == amqp.PreconditionFailed {
		return apperrors.Wrapf(ErrTopologyConflict, "queue %q: %s", queue, amqpErr.Reason)
	}
	return apperrors.Wrapf(err, "failed to declare queue %q", queue)
}
