// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/service"
)

type MockQuoteCalculator struct {
	mock.Mock
}

// NewMockQuoteCalculator creates a mock that asserts its expectations on cleanup.
func NewMockQuoteCalculator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockQuoteCalculator {
	m := &MockQuoteCalculator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockQuoteCalculator) Quote(ctx context.Context, req service.QuoteRequest) (*service.QuoteResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuoteResult), args.Error(1)
}

func (m *MockQuoteCalculator) PriceUnit(ctx context.Context, u model.Unit) (model.Unit, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.Unit), args.Error(1)
}

func (m *MockQuoteCalculator) ValidateUnits(units []model.Unit, expected int) error {
	args := m.Called(units, expected)
	return args.Error(0)
}

func (m *MockQuoteCalculator) ResizeBatch(units []model.Unit, n int) ([]model.Unit, error) {
	args := m.Called(units, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Unit), args.Error(1)
}

func (m *MockQuoteCalculator) DuplicatePrevious(ctx context.Context, units []model.Unit, id int) ([]model.Unit, error) {
	args := m.Called(ctx, units, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Unit), args.Error(1)
}

func (m *MockQuoteCalculator) InvalidateCache() {
	m.Called()
}
