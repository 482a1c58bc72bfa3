package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/helpmatch/internal/events"
)

func TestPublisher_Publish(t *testing.T) {
	t.Run("publishes persistent json with urgency priority", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		ok := p.publisher.Publish(context.Background(), "request_created", events.RequestCreated{
			ID:       1,
			UserID:   42,
			Title:    "Groceries",
			Category: "shopping",
			Urgency:  "urgent",
		})

		require.True(t, ok)
		published := p.broker.publishings()
		require.Len(t, published, 1)
		msg := published[0]
		assert.Equal(t, uint8(9), msg.Priority)
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, events.NameRequestCreated, msg.Type)
		assert.False(t, msg.Timestamp.IsZero())

		id, err := uuid.Parse(msg.MessageId)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())

		var body map[string]any
		require.NoError(t, json.Unmarshal(msg.Body, &body))
		assert.Equal(t, float64(1), body["id"])
		assert.Equal(t, "urgent", body["urgency"])

		assert.ElementsMatch(t, []string{"request_created", "request_created.dlq"}, p.broker.queueNames())
		assert.Equal(t, 1, p.broker.depth("request_created"))
		assert.Equal(t, []uint8{9}, p.metrics.publishedPriorities("request_created"))
	})

	t.Run("maps every urgency label", func(t *testing.T) {
		tests := []struct {
			urgency  string
			expected uint8
		}{
			{"low", 1},
			{"medium", 3},
			{"high", 6},
			{"urgent", 9},
			{"LOW", 1},
			{"High", 6},
			{"", 1},
			{"whenever", 1},
		}

		for _, tt := range tests {
			t.Run(tt.urgency, func(t *testing.T) {
				p := newPipeline(newFakeBroker())
				defer p.close()

				require.True(t, p.publisher.Publish(
					context.Background(),
					"request_created",
					events.RequestCreated{ID: 5, Urgency: tt.urgency},
				))

				published := p.broker.publishings()
				require.Len(t, published, 1)
				assert.Equal(t, tt.expected, published[0].Priority)
			})
		}
	})

	t.Run("events without urgency use the default priority", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		require.True(t, p.publisher.Publish(
			context.Background(),
			"offer_created",
			events.OfferCreated{ID: 1, RequestID: 2, HelperID: 3},
		))

		published := p.broker.publishings()
		require.Len(t, published, 1)
		assert.Equal(t, DefaultPriority, published[0].Priority)
		assert.Equal(t, events.NameOfferCreated, published[0].Type)
	})

	t.Run("orders ready messages by priority", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		ctx := context.Background()

		require.True(t, p.publisher.Publish(ctx, "request_created", events.RequestCreated{ID: 1, Urgency: "low"}))
		require.True(t, p.publisher.Publish(ctx, "request_created", events.RequestCreated{ID: 2, Urgency: "urgent"}))
		require.True(t, p.publisher.Publish(ctx, "request_created", events.RequestCreated{ID: 3, Urgency: "medium"}))

		ready := p.broker.readyMessages("request_created")
		require.Len(t, ready, 3)
		assert.Equal(t, []uint8{9, 3, 1}, []uint8{ready[0].Priority, ready[1].Priority, ready[2].Priority})
	})

	t.Run("drops the message when the broker is unreachable", func(t *testing.T) {
		b := newFakeBroker()
		b.dialErr = errors.New("dial tcp 127.0.0.1:5672: connection refused")
		p := newPipeline(b)
		defer p.close()

		var ok bool
		assert.NotPanics(t, func() {
			ok = p.publisher.Publish(context.Background(), "request_created", events.RequestCreated{ID: 1})
		})

		assert.False(t, ok)
		assert.Equal(t, 1, b.dialCount())
		assert.Equal(t, 1, p.metrics.droppedCount("request_created"))
		assert.Empty(t, p.broker.publishings())
		assert.Empty(t, p.metrics.publishedPriorities("request_created"))
	})

	t.Run("uses the existing channel without dialing", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		p.manager.Connect(context.Background())

		require.True(t, p.publisher.Publish(context.Background(), "request_created", events.RequestCreated{ID: 1}))
		require.True(t, p.publisher.Publish(context.Background(), "request_created", events.RequestCreated{ID: 2}))

		assert.Equal(t, 1, p.broker.dialCount())
	})

	t.Run("returns false on topology conflict", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		p.manager.Connect(context.Background())
		ch, _ := p.manager.Channel()
		require.NoError(t, NewTopology(3).AssertQueueWithDeadLetter(ch, "request_created"))

		ok := p.publisher.Publish(context.Background(), "request_created", events.RequestCreated{ID: 1})

		assert.False(t, ok)
		assert.Empty(t, p.broker.publishings())
	})
}

func TestPublisher_PublishRaw(t *testing.T) {
	t.Run("publishes body unchanged", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		err := p.publisher.PublishRaw(context.Background(), "request_created", RawMessage{
			Body:        []byte("not json"),
			ContentType: "text/plain",
		})

		require.NoError(t, err)
		published := p.broker.publishings()
		require.Len(t, published, 1)
		assert.Equal(t, []byte("not json"), published[0].Body)
		assert.Equal(t, "text/plain", published[0].ContentType)
		assert.Equal(t, DefaultPriority, published[0].Priority)
		assert.Empty(t, published[0].Type)
		assert.NotEmpty(t, published[0].MessageId)
	})

	t.Run("keeps message id and priority", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()

		err := p.publisher.PublishRaw(context.Background(), "request_created", RawMessage{
			Body:      []byte(`{"id":1}`),
			Priority:  6,
			MessageID: "msg-1",
			Type:      events.NameRequestCreated,
		})

		require.NoError(t, err)
		published := p.broker.publishings()
		require.Len(t, published, 1)
		assert.Equal(t, uint8(6), published[0].Priority)
		assert.Equal(t, "msg-1", published[0].MessageId)
	})

	t.Run("returns channel not ready", func(t *testing.T) {
		b := newFakeBroker()
		b.dialErr = errors.New("connection refused")
		p := newPipeline(b)
		defer p.close()

		err := p.publisher.PublishRaw(context.Background(), "request_created", RawMessage{Body: []byte("x")})

		assert.ErrorIs(t, err, ErrChannelNotReady)
	})

	t.Run("returns topology conflict", func(t *testing.T) {
		p := newPipeline(newFakeBroker())
		defer p.close()
		p.manager.Connect(context.Background())
		ch, _ := p.manager.Channel()
		require.NoError(t, NewTopology(0).AssertQueueWithDeadLetter(ch, "request_created"))

		err := p.publisher.PublishRaw(context.Background(), "request_created", RawMessage{Body: []byte("x")})

		assert.ErrorIs(t, err, ErrTopologyConflict)
	})
}
