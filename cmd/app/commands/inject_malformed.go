package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/jellydator/validation"

	"github.com/allisson/helpmatch/internal/broker"
	apperrors "github.com/allisson/helpmatch/internal/errors"
	customValidation "github.com/allisson/helpmatch/internal/validation"
)

type injectResult struct {
	Queue    string `json:"queue"`
	Injected int    `json:"injected"`
}

// RunInjectMalformed publishes messages the consumer must dead-letter. It is refused unless
// dev endpoints are enabled.
func RunInjectMalformed(
	ctx context.Context,
	publisher broker.RawPublisher,
	logger *slog.Logger,
	out io.Writer,
	enabled bool,
	queue string,
	format string,
) error {
	if !enabled {
		return apperrors.Wrap(apperrors.ErrForbidden, "dev endpoints are disabled")
	}
	if err := validation.Validate(queue, validation.Required, customValidation.QueueName); err != nil {
		return customValidation.WrapValidationError(err)
	}

	injected, err := broker.InjectMalformed(ctx, publisher, queue)
	if err != nil {
		return fmt.Errorf("failed to inject into %s: %w", queue, err)
	}

	logger.Warn("malformed messages injected", slog.String("queue", queue), slog.Int("count", injected))

	return writeResult(out, format,
		injectResult{Queue: queue, Injected: injected},
		fmt.Sprintf("Injected %d malformed message(s) into %s", injected, queue),
	)
}
