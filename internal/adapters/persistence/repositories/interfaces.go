package repositories

import (
	"context"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDAndRole(ctx context.Context, id, role string) (*models.User, error)
	GetByIDOrEmail(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (int64, error)
	ListByRole(ctx context.Context, role string, page pagination.Window) ([]*models.User, int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcept(ctx context.Context, email, exceptID string) (bool, error)
}

// FeeRepository defines fee catalog and balance repository interface
type FeeRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*models.Fee, error)
	List(ctx context.Context) ([]*models.Fee, error)
	AssignFees(ctx context.Context, userID string, fees []*models.Fee) error
	GetOutstanding(ctx context.Context, userID string) ([]*models.OutstandingFee, error)
	ListByUser(ctx context.Context, userID string) ([]*models.UserFee, error)
	GetUserFeeForUpdate(ctx context.Context, userID, feeID string) (*models.UserFee, error)
	ApplyPayment(ctx context.Context, userID, feeID string, amount decimal.Decimal) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
	FindInconsistent(ctx context.Context) ([]*models.UserFee, error)
}

// TransactionRepository defines the append-only payment ledger interface
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	Exists(ctx context.Context, id string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ListAll(ctx context.Context, page pagination.Window) ([]*models.TransactionWithStudent, int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
