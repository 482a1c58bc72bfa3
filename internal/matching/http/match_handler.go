// Package http provides HTTP handlers for reading match results.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/helpmatch/internal/httputil"
	"github.com/allisson/helpmatch/internal/matching/domain"
	"github.com/allisson/helpmatch/internal/matching/usecase"
)

// MatchResponse represents a match in API responses.
type MatchResponse struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	HelperID  int64     `json:"helper_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListMatchesResponse represents the matches of one request.
type ListMatchesResponse struct {
	Data []MatchResponse `json:"data"`
}

func mapMatchesToListResponse(matches []*domain.Match) ListMatchesResponse {
	data := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		data = append(data, MatchResponse{
			ID:        m.ID,
			RequestID: m.RequestID,
			HelperID:  m.HelperID,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return ListMatchesResponse{Data: data}
}

// MatchHandler serves match results produced by the worker.
type MatchHandler struct {
	matchingUseCase usecase.MatchingUseCase
	logger          *slog.Logger
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(matchingUseCase usecase.MatchingUseCase, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		matchingUseCase: matchingUseCase,
		logger:          logger,
	}
}

// ListHandler returns the matches of a request.
// GET /v1/requests/:id/matches
func (h *MatchHandler) ListHandler(c *gin.Context) {
	requestID, err := httputil.ParseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	matches, err := h.matchingUseCase.ListMatches(c.Request.Context(), requestID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, mapMatchesToListResponse(matches))
}
