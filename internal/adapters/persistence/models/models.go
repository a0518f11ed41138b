package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// ============================================================
// Credential store
// ============================================================

// User represents users table
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'student';index" json:"role"`
	Faculty      string    `gorm:"size:150" json:"faculty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Faculty   string    `json:"faculty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Faculty:   u.Faculty,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Fee ledger
// ============================================================

// Fee is a catalog fee definition (seeded, effectively immutable)
type Fee struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Type        string          `gorm:"size:100;not null" json:"type"`
	Description string          `gorm:"size:255" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Session     string          `gorm:"size:20;not null" json:"session"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Fee) TableName() string {
	return "fees"
}

// UserFee is one student's balance against one fee definition.
// Invariant: Balance == TotalAmount - PaidAmount; PaidAmount never decreases.
type UserFee struct {
	UserID      string          `gorm:"primaryKey;size:64" json:"user_id"`
	FeeID       string          `gorm:"primaryKey;size:64" json:"fee_id"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"paid_amount"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Fee  *Fee  `gorm:"foreignKey:FeeID;references:ID" json:"-"`
}

func (UserFee) TableName() string {
	return "user_fees"
}

// Consistent reports whether the balance equals total minus paid
func (uf *UserFee) Consistent() bool {
	return uf.Balance.Equal(uf.TotalAmount.Sub(uf.PaidAmount))
}

// OutstandingFee is a UserFee joined with its definition
type OutstandingFee struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Session     string          `json:"session"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Balance     decimal.Decimal `json:"balance"`
}

// ============================================================
// Payment ledger (append-only)
// ============================================================

// Transaction is an immutable record of one confirmed payment.
// ID is the card processor's payment id.
type Transaction struct {
	ID          string          `gorm:"primaryKey;size:255" json:"id"`
	UserID      string          `gorm:"size:64;not null;index" json:"user_id"`
	FeeID       string          `gorm:"size:64;index" json:"fee_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status      string          `gorm:"size:20;not null" json:"status"`
	Description string          `gorm:"size:255" json:"description"`
	CardLast4   string          `gorm:"size:4" json:"card_last4"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Fee  *Fee  `gorm:"foreignKey:FeeID;references:ID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionWithStudent is a Transaction joined with the payer's name
type TransactionWithStudent struct {
	Transaction
	StudentName string `json:"studentName"`
	StudentID   string `json:"student_id"`
}

// AutoMigrate creates or updates all tables in dependency order
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Fee{},
		&UserFee{},
		&Transaction{},
	)
}
