// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"github.com/guttosm/sash-quote-service/internal/pricesheet"
)

type MockPriceSheet struct {
	mock.Mock
}

// NewMockPriceSheet creates a mock that asserts its expectations on cleanup.
func NewMockPriceSheet(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPriceSheet {
	m := &MockPriceSheet{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPriceSheet) Fetch(ctx context.Context) (pricesheet.FetchResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(pricesheet.FetchResult), args.Error(1)
}

func (m *MockPriceSheet) Save(ctx context.Context, row model.RawPriceRow) (pricesheet.SaveResult, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(pricesheet.SaveResult), args.Error(1)
}
