package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DLQReplayer moves dead-lettered messages back to their queue.
type DLQReplayer interface {
	Replay(ctx context.Context, queue string, limit int) (int, error)
}

type replayResult struct {
	Queue    string `json:"queue"`
	Replayed int    `json:"replayed"`
}

// RunReplayDLQ republishes up to limit messages from <queue>.dlq onto queue.
func RunReplayDLQ(
	ctx context.Context,
	replayer DLQReplayer,
	logger *slog.Logger,
	out io.Writer,
	queue string,
	limit int,
	format string,
) error {
	if limit < 1 {
		return fmt.Errorf("limit must be a positive number, got: %d", limit)
	}

	logger.Info("replaying dead-lettered messages", slog.String("queue", queue), slog.Int("limit", limit))

	replayed, err := replayer.Replay(ctx, queue, limit)
	if err != nil {
		return fmt.Errorf("failed to replay %s: %w", queue, err)
	}

	return writeResult(out, format,
		replayResult{Queue: queue, Replayed: replayed},
		fmt.Sprintf("Replayed %d message(s) onto %s", replayed, queue),
	)
}
