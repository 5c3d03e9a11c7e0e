// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/service"
)

type MockPriceAdminService struct {
	mock.Mock
}

// NewMockPriceAdminService creates a mock that asserts its expectations on cleanup.
func NewMockPriceAdminService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPriceAdminService {
	m := &MockPriceAdminService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPriceAdminService) FetchForEdit(ctx context.Context) (*service.EditablePriceTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EditablePriceTable), args.Error(1)
}

func (m *MockPriceAdminService) Save(ctx context.Context, req service.PriceSaveRequest) (*service.PriceSaveResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PriceSaveResult), args.Error(1)
}

func (m *MockPriceAdminService) History(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceSnapshot), args.Error(1)
}
