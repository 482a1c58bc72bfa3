package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/helpmatch/internal/errors"
	"github.com/allisson/helpmatch/internal/events"
)

// MockRawPublisher is a mock implementation of RawPublisher
type MockRawPublisher struct {
	mock.Mock
}

func (m *MockRawPublisher) PublishRaw(ctx context.Context, queue string, msg RawMessage) error {
	args := m.Called(ctx, queue, msg)
	return args.Error(0)
}

func deadLetter(t *testing.T, p *pipeline, queue string, count int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.consumer.Consume(ctx, queue, func(context.Context, events.Event) error {
		return errors.New("matching failed")
	}))
	for i := 1; i <= count; i++ {
		require.True(t, p.publisher.Publish(ctx, queue, events.RequestCreated{ID: int64(i), Urgency: "high"}))
	}
	require.Eventually(t, func() bool {
		return p.broker.depth(DeadLetterQueueName(queue)) == count
	}, waitFor, tick)
	cancel()
	p.consumer.Wait()
}

func TestReplayer_Replay(t *testing.T) {
	t.Run("moves dead-lettered messages back", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		deadLetter(t, p, "request_created", 3)

		replayer := NewReplayer(p.manager, p.publisher, nil)
		replayed, err := replayer.Replay(context.Background(), "request_created", 10)

		require.NoError(t, err)
		assert.Equal(t, 3, replayed)
		assert.Equal(t, 0, p.broker.depth("request_created.dlq"))
		assert.Equal(t, 0, p.broker.unacked())

		ready := p.broker.readyMessages("request_created")
		require.Len(t, ready, 3)
		for _, d := range ready {
			assert.Equal(t, events.NameRequestCreated, d.Type)
			assert.Equal(t, uint8(6), d.Priority)
			assert.Equal(t, "application/json", d.ContentType)
			assert.Equal(t, "request_created", d.Headers["x-first-death-queue"])
		}
	})

	t.Run("respects the limit", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		deadLetter(t, p, "request_created", 3)

		replayed, err := NewReplayer(p.manager, p.publisher, nil).Replay(context.Background(), "request_created", 2)

		require.NoError(t, err)
		assert.Equal(t, 2, replayed)
		assert.Equal(t, 1, p.broker.depth("request_created.dlq"))
		assert.Equal(t, 2, p.broker.depth("request_created"))
	})

	t.Run("empty dlq", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		replayed, err := NewReplayer(p.manager, p.publisher, nil).Replay(context.Background(), "offer_created", 5)

		require.NoError(t, err)
		assert.Equal(t, 0, replayed)
	})

	t.Run("invalid limit", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		_, err := NewReplayer(p.manager, p.publisher, nil).Replay(context.Background(), "request_created", 0)

		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Equal(t, 0, p.broker.dialCount())
	})

	t.Run("broker unreachable", func(t *testing.T) {
		b := newFakeBroker()
		b.dialErr = errors.New("connection refused")
		p := newPipeline(b)
		defer p.close()

		_, err := NewReplayer(p.manager, p.publisher, nil).Replay(context.Background(), "request_created", 5)

		assert.ErrorIs(t, err, ErrChannelNotReady)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		deadLetter(t, p, "request_created", 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		replayed, err := NewReplayer(p.manager, p.publisher, nil).Replay(ctx, "request_created", 5)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, replayed)
		assert.Equal(t, 1, p.broker.depth("request_created.dlq"))
	})
}

func TestInjectMalformed(t *testing.T) {
	t.Run("malformed samples are dead-lettered by the consumer", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, p.consumer.Consume(ctx, "request_created", func(context.Context, events.Event) error {
			t.Error("handler must not be invoked for malformed messages")
			return nil
		}))

		published, err := InjectMalformed(ctx, p.publisher, "request_created")

		require.NoError(t, err)
		assert.Equal(t, 2, published)
		require.Eventually(t, func() bool {
			return p.broker.depth("request_created.dlq") == 2
		}, waitFor, tick)
		assert.Equal(t, 2, p.metrics.deadLetteredCount("request_created", ReasonMalformed))
	})

	t.Run("stops at the first publish error", func(t *testing.T) {
		publisher := &MockRawPublisher{}
		publisher.On("PublishRaw", mock.Anything, "request_created", mock.AnythingOfType("broker.RawMessage")).
			Return(ErrChannelNotReady).
			Once()

		published, err := InjectMalformed(context.Background(), publisher, "request_created")

		assert.ErrorIs(t, err, ErrChannelNotReady)
		assert.Equal(t, 0, published)
		publisher.AssertExpectations(t)
	})
}

func TestMalformedSamples(t *testing.T) {
	registry := events.NewRegistry()
	for _, msg := range MalformedSamples() {
		_, err := registry.Decode(events.NameRequestCreated, msg.Body)
		assert.ErrorIs(t, err, events.ErrMalformedPayload)
	}
}
