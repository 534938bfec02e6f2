package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tablemaker/internal/models"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of repository.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateWithMaster(group *models.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetByID(id uint) (*models.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroupRepository) GetByIDWithPlayers(id uint) (*models.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroupRepository) List(userID uint, text string, page, limit int) ([]models.Group, int64, error) {
	args := m.Called(userID, text, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Group), args.Get(1).(int64), args.Error(2)
}

func (m *MockGroupRepository) Update(group *models.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteCascade(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGroupRepository) AttachPlayer(groupID, userID uint) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) DetachPlayer(groupID, userID uint) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) IsPlayer(groupID, userID uint) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

// MockGroupRequestRepository is a mock implementation of
// repository.GroupRequestRepository.
type MockGroupRequestRepository struct {
	mock.Mock
}

func (m *MockGroupRequestRepository) Create(request *models.GroupRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockGroupRequestRepository) GetByIDAndGroup(id, groupID uint) (*models.GroupRequest, error) {
	args := m.Called(id, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GroupRequest), args.Error(1)
}

func (m *MockGroupRequestRepository) ExistsPending(groupID, userID uint) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRequestRepository) ListByGroupAndMaster(groupID, masterID uint) ([]models.GroupRequest, error) {
	args := m.Called(groupID, masterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GroupRequest), args.Error(1)
}

func (m *MockGroupRequestRepository) AcceptAndAttach(request *models.GroupRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

// MockPasswordResetTokenRepository is a mock implementation of
// repository.PasswordResetTokenRepository.
type MockPasswordResetTokenRepository struct {
	mock.Mock
}

func (m *MockPasswordResetTokenRepository) Upsert(userID uint, token string, issuedAt time.Time) error {
	args := m.Called(userID, token, issuedAt)
	return args.Error(0)
}

func (m *MockPasswordResetTokenRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetTokenRepository) ConsumeWithPassword(token *models.PasswordResetToken, passwordHash string) error {
	args := m.Called(token, passwordHash)
	return args.Error(0)
}

func (m *MockPasswordResetTokenRepository) DeleteExpired(before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsEnabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) SendPasswordReset(toEmail, username, resetURL string) error {
	args := m.Called(toEmail, username, resetURL)
	return args.Error(0)
}

// MockLimiter is a mock implementation of mail.Limiter.
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}
