package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	"github.com/allisson/helpmatch/internal/broker"
	"github.com/allisson/helpmatch/internal/httputil"
	customValidation "github.com/allisson/helpmatch/internal/validation"
)

// DevHandler exposes operations meant for local testing of the pipeline.
type DevHandler struct {
	publisher broker.RawPublisher
	logger    *slog.Logger
}

// NewDevHandler creates a new dev handler.
func NewDevHandler(publisher broker.RawPublisher, logger *slog.Logger) *DevHandler {
	return &DevHandler{
		publisher: publisher,
		logger:    logger,
	}
}

// InjectMalformedHandler publishes messages the consumer must dead-letter.
// POST /v1/dev/queues/:queue/malformed - Returns 202 Accepted with the injected count.
func (h *DevHandler) InjectMalformedHandler(c *gin.Context) {
	queue := c.Param("queue")
	if err := validation.Validate(queue, validation.Required, customValidation.QueueName); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	n, err := broker.InjectMalformed(c.Request.Context(), h.publisher, queue)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Warn("malformed messages injected", slog.String("queue", queue), slog.Int("count", n))
	c.JSON(http.StatusAccepted, gin.H{"queue": queue, "injected": n})
}
