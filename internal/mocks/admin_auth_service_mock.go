// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/sash-quote-service/internal/domain/dto"
)

type MockAdminAuthService struct {
	mock.Mock
}

// NewMockAdminAuthService creates a mock that asserts its expectations on cleanup.
func NewMockAdminAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAdminAuthService {
	m := &MockAdminAuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAdminAuthService) Login(ctx context.Context, name, password string) (*dto.LoginResponse, error) {
	args := m.Called(ctx, name, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAdminAuthService) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}
