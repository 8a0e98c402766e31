package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"car-showcase/models"
)

// ensure MockAuthService implements AuthServiceInterface
var _ AuthServiceInterface = (*MockAuthService)(nil)

// MockAuthService is a testify mock for controller and middleware tests.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, password string, isAdmin *bool) (models.User, models.Session, error) {
	args := m.Called(ctx, username, password, isAdmin)
	return args.Get(0).(models.User), args.Get(1).(models.Session), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (models.User, models.Session, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(models.User), args.Get(1).(models.Session), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, sessionID string) (models.User, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) RequireAdmin(ctx context.Context, sessionID string) (models.User, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(models.User), args.Error(1)
}
