package service

import (
	"errors"

	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/pkg/crypto"
)

var (
	ErrNotProfileOwner = errors.New("cannot update another user's profile")
)

// UserService handles profile operations
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateUserRequest represents the profile update request
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=100"`
	Avatar   string `json:"avatar" binding:"omitempty,url"`
}

// Update updates a user's email, password and avatar. Only the user
// themself may update their profile.
func (s *UserService) Update(userID, actorID uint, req *UpdateUserRequest) (*models.User, error) {
	if userID != actorID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.PasswordHash = passwordHash
	user.Avatar = req.Avatar

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
