// Package usecase implements the help request business logic: persisting requests and
// offers and announcing them on the message broker.
package usecase

import (
	"context"

	"github.com/allisson/helpmatch/internal/events"
	"github.com/allisson/helpmatch/internal/request/domain"
)

// RequestRepository defines persistence operations for requests and offers.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Request, error)
	CreateOffer(ctx context.Context, offer *domain.Offer) error
}

// EventPublisher publishes domain events. Publish reports whether the broker accepted
// the message; failures never surface as errors.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, evt events.Event) bool
}

// CreateRequestInput contains the data for a new help request.
type CreateRequestInput struct {
	UserID      int64
	Title       string
	Category    string
	Description string
	Urgency     string
}

// CreateOfferInput contains the data for a helper's offer.
type CreateOfferInput struct {
	RequestID int64
	HelperID  int64
	Message   string
}

// RequestUseCase defines help request business operations.
type RequestUseCase interface {
	// Create persists a request and publishes request_created. The returned bool
	// reports whether the event reached the broker.
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, bool, error)

	Get(ctx context.Context, id int64) (*domain.Request, error)

	List(ctx context.Context, offset, limit int) ([]*domain.Request, error)

	// CreateOffer persists an offer on an open request and publishes offer_created.
	CreateOffer(ctx context.Context, input CreateOfferInput) (*domain.Offer, bool, error)
}
