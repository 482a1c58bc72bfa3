// Package mocks provides mock implementations of the request use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/helpmatch/internal/request/domain"
	"github.com/allisson/helpmatch/internal/request/usecase"
)

// MockRequestUseCase is a mock implementation of usecase.RequestUseCase.
type MockRequestUseCase struct {
	mock.Mock
}

// NewMockRequestUseCase creates a mock that asserts its expectations on test cleanup.
func NewMockRequestUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRequestUseCase {
	m := &MockRequestUseCase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method.
func (m *MockRequestUseCase) Create(
	ctx context.Context,
	input usecase.CreateRequestInput,
) (*domain.Request, bool, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Request), args.Bool(1), args.Error(2)
}

// Get mocks the Get method.
func (m *MockRequestUseCase) Get(ctx context.Context, id int64) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

// List mocks the List method.
func (m *MockRequestUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Request, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Request), args.Error(1)
}

// CreateOffer mocks the CreateOffer method.
func (m *MockRequestUseCase) CreateOffer(
	ctx context.Context,
	input usecase.CreateOfferInput,
) (*domain.Offer, bool, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Offer), args.Bool(1), args.Error(2)
}

var _ usecase.RequestUseCase = (*MockRequestUseCase)(nil)
