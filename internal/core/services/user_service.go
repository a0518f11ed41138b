package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/core/domain"
	"limpay/internal/pkg/password"
	"limpay/internal/pkg/validation"

	"gorm.io/gorm"
)

// UserService handles self-service profile management
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UpdateProfileInput represents update profile input (for self).
// Nil or empty fields are left unchanged.
type UpdateProfileInput struct {
	Name     *string `json:"name" label:"Name" validate:"omitempty,max=150"`
	Email    *string `json:"email" label:"Email" validate:"omitempty,email,max=191"`
	Password *string `json:"password" label:"Password" validate:"omitempty,min=6,max=72"`
	Faculty  *string `json:"faculty" label:"Faculty" validate:"omitempty,max=150"`
}

// GetProfile gets the caller's own user record
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile applies the supplied fields to the caller's record.
// It reports false when no field was supplied.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input *UpdateProfileInput) (bool, error) {
	for _, field := range []*string{input.Name, input.Email, input.Faculty} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
	if input.Name != nil && *input.Name == "" {
		return false, domain.NewValidationError("name", "Name cannot be empty")
	}
	if err := validation.Struct(input); err != nil {
		return false, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrUserNotFound
		}
		return false, err
	}

	changed := false

	if v := trimmed(input.Name); v != "" {
		user.Name = v
		changed = true
	}

	if v := strings.ToLower(trimmed(input.Email)); v != "" {
		taken, err := s.userRepo.ExistsByEmailExcept(ctx, v, user.ID)
		if err != nil {
			return false, err
		}
		if taken {
			return false, domain.ErrEmailAlreadyExists
		}
		user.Email = v
		changed = true
	}

	if v := trimmed(input.Faculty); v != "" {
		user.Faculty = v
		changed = true
	}

	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := password.Hash(*input.Password)
		if err != nil {
			return false, err
		}
		user.PasswordHash = hashedPassword
		changed = true
	}

	if !changed {
		return false, nil
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, domain.ErrEmailAlreadyExists
		}
		return false, err
	}

	log.Printf("✅ Profile updated: %s", user.ID)
	return true, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
