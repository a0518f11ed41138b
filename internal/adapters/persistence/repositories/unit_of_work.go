package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories that share one database handle
type Repositories struct {
	Users        UserRepository
	Fees         FeeRepository
	Transactions TransactionRepository
}

// NewRepositories builds every repository on db
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        NewUserRepository(db),
		Fees:         NewFeeRepository(db),
		Transactions: NewTransactionRepository(db),
	}
}

// UnitOfWork runs multi-repository operations atomically
type UnitOfWork interface {
	// WithTx executes fn within a transaction.
	// If fn returns an error or panics the transaction is rolled back,
	// otherwise it is committed.
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work backed by db
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
