// Package http provides HTTP handlers for help requests and offers.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/helpmatch/internal/httputil"
	"github.com/allisson/helpmatch/internal/request/http/dto"
	"github.com/allisson/helpmatch/internal/request/usecase"
	customValidation "github.com/allisson/helpmatch/internal/validation"
)

// RequestHandler handles HTTP requests for help requests and offers.
type RequestHandler struct {
	requestUseCase usecase.RequestUseCase
	logger         *slog.Logger
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(requestUseCase usecase.RequestUseCase, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
		logger:         logger,
	}
}

// CreateHandler creates a help request.
// POST /v1/requests - Returns 201 Created even when the event could not be published.
func (h *RequestHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRequestRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	created, published, err := h.requestUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRequestToCreateResponse(created, published))
}

// GetHandler returns a help request.
// GET /v1/requests/:id
func (h *RequestHandler) GetHandler(c *gin.Context) {
	id, err := httputil.ParseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req, err := h.requestUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestToResponse(req))
}

// ListHandler returns a page of help requests.
// GET /v1/requests?offset=0&limit=50
func (h *RequestHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	reqs, err := h.requestUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRequestsToListResponse(reqs))
}

// CreateOfferHandler records a helper's offer on a request.
// POST /v1/requests/:id/offers
func (h *RequestHandler) CreateOfferHandler(c *gin.Context) {
	requestID, err := httputil.ParseIDParam(c, "id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	offer, published, err := h.requestUseCase.CreateOffer(c.Request.Context(), usecase.CreateOfferInput{
		RequestID: requestID,
		HelperID:  req.HelperID,
		Message:   req.Message,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOfferToResponse(offer, published))
}
