package repositories

import (
	"context"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/pkg/pagination"

	"gorm.io/gorm"
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a transaction; a reused ID fails with gorm.ErrDuplicatedKey
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// Exists checks if a transaction ID was already recorded
func (r *transactionRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListByUser gets a user's transactions, newest first
func (r *transactionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}

// ListAll gets every transaction with the payer's name, newest first
func (r *transactionRepository) ListAll(ctx context.Context, page pagination.Window) ([]*models.TransactionWithStudent, int64, error) {
	var txns []*models.TransactionWithStudent
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select("t.*, u.name AS student_name, t.user_id AS student_id").
		Joins("LEFT JOIN users u ON u.id = t.user_id").
		Order("t.created_at DESC, t.id DESC").
		Scopes(page.Scope).
		Scan(&txns).Error
	if err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// DeleteByUser removes every transaction of a user
func (r *transactionRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Transaction{}).Error
}
