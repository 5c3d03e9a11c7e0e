// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

type MockPriceSnapshotRepositoryInterface struct {
	mock.Mock
}

// NewMockPriceSnapshotRepositoryInterface creates a mock that asserts its expectations on cleanup.
func NewMockPriceSnapshotRepositoryInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPriceSnapshotRepositoryInterface {
	m := &MockPriceSnapshotRepositoryInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPriceSnapshotRepositoryInterface) Save(ctx context.Context, snapshot *model.PriceSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockPriceSnapshotRepositoryInterface) Latest(ctx context.Context) (*model.PriceSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceSnapshot), args.Error(1)
}

func (m *MockPriceSnapshotRepositoryInterface) List(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PriceSnapshot), args.Error(1)
}

func (m *MockPriceSnapshotRepositoryInterface) Prune(ctx context.Context, keep int) (int64, error) {
	args := m.Called(ctx, keep)
	return args.Get(0).(int64), args.Error(1)
}
