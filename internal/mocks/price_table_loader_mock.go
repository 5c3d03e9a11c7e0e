// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
)

type MockPriceTableLoader struct {
	mock.Mock
}

// NewMockPriceTableLoader creates a mock that asserts its expectations on cleanup.
func NewMockPriceTableLoader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPriceTableLoader {
	m := &MockPriceTableLoader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPriceTableLoader) Load(ctx context.Context) (model.PriceTable, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.PriceTable), args.Error(1)
}

func (m *MockPriceTableLoader) LoadFresh(ctx context.Context) (model.PriceTable, model.RawPriceRow, error) {
	args := m.Called(ctx)
	var row model.RawPriceRow
	if r := args.Get(1); r != nil {
		row = r.(model.RawPriceRow)
	}
	return args.Get(0).(model.PriceTable), row, args.Error(2)
}

func (m *MockPriceTableLoader) Current() model.PriceTable {
	args := m.Called()
	return args.Get(0).(model.PriceTable)
}
