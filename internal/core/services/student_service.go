package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/core/domain"
	"limpay/internal/pkg/pagination"
	"limpay/internal/pkg/password"
	"limpay/internal/pkg/validation"

	"gorm.io/gorm"
)

// StudentService handles admin management of student accounts
type StudentService struct {
	userRepo repositories.UserRepository
	txnRepo  repositories.TransactionRepository
	uow      repositories.UnitOfWork
	fees     *FeeService
}

// NewStudentService creates a new student service
func NewStudentService(
	userRepo repositories.UserRepository,
	txnRepo repositories.TransactionRepository,
	uow repositories.UnitOfWork,
	fees *FeeService,
) *StudentService {
	return &StudentService{
		userRepo: userRepo,
		txnRepo:  txnRepo,
		uow:      uow,
		fees:     fees,
	}
}

// CreateStudentInput represents admin create-student input
type CreateStudentInput struct {
	ID       string `json:"id" label:"Student ID" validate:"required,studentid"`
	Name     string `json:"name" label:"Name" validate:"required,notblank,max=150"`
	Email    string `json:"email" label:"Email" validate:"required,email,max=191"`
	Password string `json:"password" label:"Password" validate:"required,min=6,max=72"`
	Faculty  string `json:"faculty" label:"Faculty" validate:"max=150"`
}

// UpdateStudentInput represents admin update-student input.
// A blank password keeps the current one.
type UpdateStudentInput struct {
	Name     string `json:"name" label:"Name" validate:"required,notblank,max=150"`
	Email    string `json:"email" label:"Email" validate:"required,email,max=191"`
	Faculty  string `json:"faculty" label:"Faculty" validate:"max=150"`
	Password string `json:"password" label:"Password" validate:"omitempty,min=6,max=72"`
}

// List lists students with pagination
func (s *StudentService) List(ctx context.Context, page pagination.Window) ([]*models.UserResponse, *pagination.Meta, error) {
	users, total, err := s.userRepo.ListByRole(ctx, string(domain.RoleStudent), page)
	if err != nil {
		return nil, nil, err
	}

	students := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		students = append(students, u.ToResponse())
	}
	return students, page.Meta(total), nil
}

// Get gets one student by ID
func (s *StudentService) Get(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByIDAndRole(ctx, id, string(domain.RoleStudent))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// Create creates a student with the default fee set in one unit of work
func (s *StudentService) Create(ctx context.Context, input *CreateStudentInput) (*models.User, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Faculty = strings.TrimSpace(input.Faculty)

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if err := checkAvailable(ctx, s.userRepo, input.ID, input.Email); err != nil {
		return nil, err
	}

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

	if err := createStudent(ctx, s.uow, s.fees, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Student created by admin: %s", user.ID)
	return user, nil
}

// Update replaces a student's name, email and faculty and optionally the password
func (s *StudentService) Update(ctx context.Context, id string, input *UpdateStudentInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Faculty = strings.TrimSpace(input.Faculty)
	input.Password = strings.TrimSpace(input.Password)

	if err := validation.Struct(input); err != nil {
		return err
	}

	user, err := s.userRepo.GetByIDAndRole(ctx, id, string(domain.RoleStudent))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrStudentNotFound
		}
		return err
	}

	taken, err := s.userRepo.ExistsByEmailExcept(ctx, input.Email, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailAlreadyExists
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Faculty = facultyOrDefault(input.Faculty)

	if input.Password != "" {
		hashedPassword, err := password.Hash(input.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return err
	}

	log.Printf("✅ Student updated: %s", user.ID)
	return nil
}

// Delete removes a student's fee balances, then transactions, then the
// user row as one unit. Nothing is removed if the student does not exist.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	ctx = context.WithoutCancel(ctx)
	err := s.uow.WithTx(ctx, func(repos repositories.Repositories) error {
		if _, err := repos.Users.GetByIDAndRole(ctx, id, string(domain.RoleStudent)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStudentNotFound
			}
			return err
		}

		if err := repos.Fees.DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := repos.Transactions.DeleteByUser(ctx, id); err != nil {
			return err
		}

		n, err := repos.Users.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrStudentNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Student deleted: %s", id)
	return nil
}

// ListTransactions lists every student's transactions, newest first
func (s *StudentService) ListTransactions(ctx context.Context, page pagination.Window) ([]*models.TransactionWithStudent, *pagination.Meta, error) {
	txns, total, err := s.txnRepo.ListAll(ctx, page)
	if err != nil {
		return nil, nil, err
	}
	if txns == nil {
		txns = []*models.TransactionWithStudent{}
	}
	return txns, page.Meta(total), nil
}

// checkAvailable reports which of the unique fields are already taken
func checkAvailable(ctx context.Context, userRepo repositories.UserRepository, id, email string) error {
	idTaken, err := userRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	emailTaken, err := userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}

	var fields []string
	if idTaken {
		fields = append(fields, "Student ID")
	}
	if emailTaken {
		fields = append(fields, "Email")
	}
	if len(fields) > 0 {
		return domain.NewConflictError(fields...)
	}
	return nil
}

// createStudent inserts user and its default fee balances in one transaction
func createStudent(ctx context.Context, uow repositories.UnitOfWork, fees *FeeService, user *models.User) error {
	err := uow.WithTx(ctx, func(repos repositories.Repositories) error {
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		return fees.assignDefaultFees(ctx, repos.Fees, user.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent registration
		return domain.NewConflictError("User ID or Email")
	}
	return err
}

func facultyOrDefault(faculty string) string {
	if faculty == "" {
		return domain.DefaultFaculty
	}
	return faculty
}
