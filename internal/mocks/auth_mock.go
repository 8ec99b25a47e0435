package mocks

import (
	"context"
	"ops-portal/internal/auth"

	"github.com/stretchr/testify/mock"
)

type ProviderMock struct {
	mock.Mock
}

func NewProviderMock() *ProviderMock {
	return &ProviderMock{}
}

func (m *ProviderMock) SignIn(ctx context.Context, email, password string) (*auth.Grant, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Grant), args.Error(1)
}

func (m *ProviderMock) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}
