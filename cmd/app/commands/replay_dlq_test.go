package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/helpmatch/internal/broker"
)

type mockReplayer struct {
	mock.Mock
}

func (m *mockReplayer) Replay(ctx context.Context, queue string, limit int) (int, error) {
	args := m.Called(ctx, queue, limit)
	return args.Int(0), args.Error(1)
}

func TestRunReplayDLQ(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	t.Run("text-output", func(t *testing.T) {
		replayer := &mockReplayer{}
		replayer.On("Replay", ctx, "request_created", 100).Return(7, nil)

		var out bytes.Buffer
		err := RunReplayDLQ(ctx, replayer, logger, &out, "request_created", 100, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Replayed 7 message(s) onto request_created")
		replayer.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		replayer := &mockReplayer{}
		replayer.On("Replay", ctx, "offer_created", 5).Return(0, nil)

		var out bytes.Buffer
		err := RunReplayDLQ(ctx, replayer, logger, &out, "offer_created", 5, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"replayed": 0`)
		require.Contains(t, out.String(), `"queue": "offer_created"`)
		replayer.AssertExpectations(t)
	})

	t.Run("invalid-limit", func(t *testing.T) {
		replayer := &mockReplayer{}
		err := RunReplayDLQ(ctx, replayer, logger, &bytes.Buffer{}, "request_created", 0, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "limit must be a positive number")
		replayer.AssertNotCalled(t, "Replay", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("broker-unavailable", func(t *testing.T) {
		replayer := &mockReplayer{}
		replayer.On("Replay", ctx, "request_created", 10).Return(0, broker.ErrChannelNotReady)

		err := RunReplayDLQ(ctx, replayer, logger, &bytes.Buffer{}, "request_created", 10, "text")

		require.Error(t, err)
		require.True(t, errors.Is(err, broker.ErrChannelNotReady))
	})
}
