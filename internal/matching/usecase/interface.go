// Package usecase implements the consumer side of the pipeline: matching new requests to
// available helpers and tracking offers.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/helpmatch/internal/events"
	"github.com/allisson/helpmatch/internal/matching/domain"
)

// MatchRepository defines persistence operations for matching.
type MatchRepository interface {
	GetRequest(ctx context.Context, id int64, lock bool) (*domain.RequestRef, error)
	ListAvailableHelpers(ctx context.Context, category string, limit int) ([]*domain.Helper, error)
	CreateMatch(ctx context.Context, match *domain.Match) (bool, error)
	MarkOffered(ctx context.Context, requestID, helperID int64, at time.Time) error
	UpdateRequestStatus(ctx context.Context, id int64, from, to string, at time.Time) error
	ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error)
}

// MatchingUseCase defines matching operations. Handle* methods are invoked once per
// delivery and must tolerate redelivery of the same event.
type MatchingUseCase interface {
	// HandleRequestCreated matches the request to available helpers and returns how many
	// new matches were created.
	HandleRequestCreated(ctx context.Context, evt events.RequestCreated) (int, error)

	// HandleOfferCreated marks the helper's match as offered.
	HandleOfferCreated(ctx context.Context, evt events.OfferCreated) error

	ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error)
}
