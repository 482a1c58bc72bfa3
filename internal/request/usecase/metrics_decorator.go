package usecase

import (
	"context"
	"time"

	"github.com/allisson/helpmatch/internal/metrics"
	"github.com/allisson/helpmatch/internal/request/domain"
)

// requestUseCaseWithMetrics decorates RequestUseCase with metrics instrumentation.
type requestUseCaseWithMetrics struct {
	next    RequestUseCase
	metrics metrics.BusinessMetrics
}

// NewRequestUseCaseWithMetrics wraps a RequestUseCase with metrics recording.
func NewRequestUseCaseWithMetrics(useCase RequestUseCase, m metrics.BusinessMetrics) RequestUseCase {
	return &requestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *requestUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	r.metrics.RecordOperation(ctx, "requests", operation, status)
	r.metrics.RecordDuration(ctx, "requests", operation, time.Since(start), status)
}

// Create records metrics for request creation.
func (r *requestUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateRequestInput,
) (*domain.Request, bool, error) {
	start := time.Now()
	req, published, err := r.next.Create(ctx, input)
	r.record(ctx, "request_create", start, err)
	return req, published, err
}

// Get records metrics for request retrieval.
func (r *requestUseCaseWithMetrics) Get(ctx context.Context, id int64) (*domain.Request, error) {
	start := time.Now()
	req, err := r.next.Get(ctx, id)
	r.record(ctx, "request_get", start, err)
	return req, err
}

// List records metrics for request listing.
func (r *requestUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	start := time.Now()
	reqs, err := r.next.List(ctx, offset, limit)
	r.record(ctx, "request_list", start, err)
	return reqs, err
}

// CreateOffer records metrics for offer creation.
func (r *requestUseCaseWithMetrics) CreateOffer(
	ctx context.Context,
	input CreateOfferInput,
) (*domain.Offer, bool, error) {
	start := time.Now()
	offer, published, err := r.next.CreateOffer(ctx, input)
	r.record(ctx, "offer_create", start, err)
	return offer, published, err
}
