// internal/session/mock.go
package session

import (
	"context"

	"creditpix-back/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo is a testify mock of UserRepo.
type MockUserRepo struct {
	mock.Mock
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{}
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserRepo) UpdateCredits(ctx context.Context, id uint, credits int) error {
	args := m.Called(ctx, id, credits)
	return args.Error(0)
}
