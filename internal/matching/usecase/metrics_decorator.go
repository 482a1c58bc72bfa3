package usecase

import (
	"context"
	"time"

	"github.com/allisson/helpmatch/internal/events"
	"github.com/allisson/helpmatch/internal/matching/domain"
	"github.com/allisson/helpmatch/internal/metrics"
)

// matchingUseCaseWithMetrics decorates MatchingUseCase with metrics instrumentation.
type matchingUseCaseWithMetrics struct {
	next    MatchingUseCase
	metrics metrics.BusinessMetrics
}

// NewMatchingUseCaseWithMetrics wraps a MatchingUseCase with metrics recording.
func NewMatchingUseCaseWithMetrics(useCase MatchingUseCase, m metrics.BusinessMetrics) MatchingUseCase {
	return &matchingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (m *matchingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	m.metrics.RecordOperation(ctx, "matching", operation, status)
	m.metrics.RecordDuration(ctx, "matching", operation, time.Since(start), status)
}

// HandleRequestCreated records metrics for request matching.
func (m *matchingUseCaseWithMetrics) HandleRequestCreated(
	ctx context.Context,
	evt events.RequestCreated,
) (int, error) {
	start := time.Now()
	n, err := m.next.HandleRequestCreated(ctx, evt)
	m.record(ctx, "request_match", start, err)
	return n, err
}

// HandleOfferCreated records metrics for offer tracking.
func (m *matchingUseCaseWithMetrics) HandleOfferCreated(ctx context.Context, evt events.OfferCreated) error {
	start := time.Now()
	err := m.next.HandleOfferCreated(ctx, evt)
	m.record(ctx, "offer_track", start, err)
	return err
}

// ListMatches records metrics for match listing.
func (m *matchingUseCaseWithMetrics) ListMatches(ctx context.Context, requestID int64) ([]*domain.Match, error) {
	start := time.Now()
	matches, err := m.next.ListMatches(ctx, requestID)
	m.record(ctx, "match_list", start, err)
	return matches, err
}
