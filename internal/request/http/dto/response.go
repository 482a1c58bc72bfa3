package dto

import (
	"time"

	"github.com/allisson/helpmatch/internal/request/domain"
)

// RequestResponse represents a help request in API responses.
type RequestResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Urgency     string    `json:"urgency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequestResponse is returned by POST /v1/requests. Published is false when the
// request was stored but its event could not be handed to the broker.
type CreateRequestResponse struct {
	RequestResponse
	Published bool `json:"published"`
}

// ListRequestsResponse represents a page of requests.
type ListRequestsResponse struct {
	Data []RequestResponse `json:"data"`
}

// OfferResponse is returned by POST /v1/requests/:id/offers.
type OfferResponse struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	HelperID  int64     `json:"helper_id"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Published bool      `json:"published"`
}

// MapRequestToResponse converts a domain request to its API representation.
func MapRequestToResponse(req *domain.Request) RequestResponse {
	return RequestResponse{
		ID:          req.ID,
		UserID:      req.UserID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Urgency:     req.Urgency,
		Status:      req.Status,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
}

// MapRequestToCreateResponse adds the publish outcome to a request response.
func MapRequestToCreateResponse(req *domain.Request, published bool) CreateRequestResponse {
	return CreateRequestResponse{
		RequestResponse: MapRequestToResponse(req),
		Published:       published,
	}
}

// MapRequestsToListResponse converts a slice of domain requests to a list response.
func MapRequestsToListResponse(reqs []*domain.Request) ListRequestsResponse {
	data := make([]RequestResponse, 0, len(reqs))
	for _, req := range reqs {
		data = append(data, MapRequestToResponse(req))
	}
	return ListRequestsResponse{Data: data}
}

// MapOfferToResponse converts a domain offer to its API representation.
func MapOfferToResponse(offer *domain.Offer, published bool) OfferResponse {
	return OfferResponse{
		ID:        offer.ID,
		RequestID: offer.RequestID,
		HelperID:  offer.HelperID,
		Message:   offer.Message,
		CreatedAt: offer.CreatedAt,
		Published: published,
	}
}
