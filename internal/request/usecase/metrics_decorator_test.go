package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/helpmatch/internal/metrics"
	"github.com/allisson/helpmatch/internal/request/domain"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// stubUseCase returns canned results without mocks so decorator tests stay in this package.
type stubUseCase struct {
	err error
}

func (s stubUseCase) Create(context.Context, CreateRequestInput) (*domain.Request, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return &domain.Request{ID: 1}, true, nil
}

func (s stubUseCase) Get(context.Context, int64) (*domain.Request, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Request{ID: 1}, nil
}

func (s stubUseCase) List(context.Context, int, int) ([]*domain.Request, error) {
	return nil, s.err
}

func (s stubUseCase) CreateOffer(context.Context, CreateOfferInput) (*domain.Offer, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	return &domain.Offer{ID: 1}, false, nil
}

func TestMetricsDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("records success", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", ctx, "requests", "request_create", "success").Once()
		m.On("RecordDuration", ctx, "requests", "request_create", mock.AnythingOfType("time.Duration"), "success").
			Once()

		uc := NewRequestUseCaseWithMetrics(stubUseCase{}, m)
		req, published, err := uc.Create(ctx, CreateRequestInput{})

		assert.NoError(t, err)
		assert.True(t, published)
		assert.Equal(t, int64(1), req.ID)
		m.AssertExpectations(t)
	})

	t.Run("records error", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		m.On("RecordOperation", ctx, "requests", "request_get", "error").Once()
		m.On("RecordDuration", ctx, "requests", "request_get", mock.AnythingOfType("time.Duration"), "error").Once()

		uc := NewRequestUseCaseWithMetrics(stubUseCase{err: assert.AnError}, m)
		_, err := uc.Get(ctx, 1)

		assert.ErrorIs(t, err, assert.AnError)
		m.AssertExpectations(t)
	})

	t.Run("operation names", func(t *testing.T) {
		m := &mockBusinessMetrics{}
		for _, op := range []string{"request_list", "offer_create"} {
			m.On("RecordOperation", ctx, "requests", op, "success").Once()
			m.On("RecordDuration", ctx, "requests", op, mock.Anything, "success").Once()
		}

		uc := NewRequestUseCaseWithMetrics(stubUseCase{}, m)
		_, _ = uc.List(ctx, 0, 10)
		_, published, _ := uc.CreateOffer(ctx, CreateOfferInput{})

		assert.False(t, published)
		m.AssertExpectations(t)
	})
}
