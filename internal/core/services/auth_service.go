package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/config"
	"limpay/internal/core/domain"
	"limpay/internal/pkg/jwt"
	"limpay/internal/pkg/password"
	"limpay/internal/pkg/validation"

	"gorm.io/gorm"
)

var errInvalidCredentials = domain.NewError(domain.ErrInvalidCredentials, "Invalid credentials")

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	uow      repositories.UnitOfWork
	fees     *FeeService
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	fees *FeeService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		uow:      uow,
		fees:     fees,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	ID       string `json:"id" label:"Student ID" validate:"required,studentid"`
	Name     string `json:"name" label:"Name" validate:"required,notblank,max=150"`
	Email    string `json:"email" label:"Email" validate:"required,email,max=191"`
	Password string `json:"password" label:"Password" validate:"required,min=6,max=72"`
	Faculty  string `json:"faculty" label:"Faculty" validate:"max=150"`
}

// LoginInput represents login input. ID may hold a student ID or an email.
type LoginInput struct {
	ID       string `json:"id" label:"ID or Email" validate:"required"`
	Password string `json:"password" label:"Password" validate:"required"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	Token string               `json:"token"`
	User  *models.UserResponse `json:"user"`
}

// Register creates a student account and assigns the default fee set.
// Both writes commit together or not at all.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Faculty = strings.TrimSpace(input.Faculty)

	// 1. Validate input
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	// 2. Report which unique fields are taken
	if err := checkAvailable(ctx, s.userRepo, input.ID, input.Email); err != nil {
		return nil, err
	}

	// 3. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleStudent),
		Faculty:      facultyOrDefault(input.Faculty),
	}

	// 4. Create user and fee balances as one unit
	if err := createStudent(ctx, s.uow, s.fees, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.ID)
	return user, nil
}

// Login authenticates a user by student ID or email
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	input.ID = strings.TrimSpace(input.ID)
	if strings.Contains(input.ID, "@") {
		input.ID = strings.ToLower(input.ID)
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	// 1. Find user by ID or email
	user, err := s.userRepo.GetByIDOrEmail(ctx, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			password.VerifyNothing(input.Password)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	// 3. Issue token
	token, err := jwt.GenerateAccessToken(user.ID, user.Role, user.Name, s.cfg.JWT.Secret, s.cfg.JWT.Issuer, s.cfg.JWT.TTL())
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.ID)

	return &AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// VerifyToken validates a bearer token and returns its claims
func (s *AuthService) VerifyToken(token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	claims, err := jwt.ValidateAccessToken(token, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

// RequireRole fails with a Forbidden error unless claims carry role
func (s *AuthService) RequireRole(claims *jwt.Claims, role domain.Role) error {
	if claims == nil || claims.Role != string(role) {
		return domain.ErrRoleRequired
	}
	return nil
}
