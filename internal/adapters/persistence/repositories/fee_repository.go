package repositories

import (
	"context"

	"limpay/internal/adapters/persistence/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// feeRepository implements FeeRepository interface
type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

// GetByIDs gets catalog fees by ID
func (r *feeRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Fee, error) {
	var fees []*models.Fee
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&fees).Error
	return fees, err
}

// List lists the whole fee catalog
func (r *feeRepository) List(ctx context.Context) ([]*models.Fee, error) {
	var fees []*models.Fee
	err := r.db.WithContext(ctx).Order("session DESC, id").Find(&fees).Error
	return fees, err
}

// AssignFees creates one balance row per fee, snapshotting the catalog amount
func (r *feeRepository) AssignFees(ctx context.Context, userID string, fees []*models.Fee) error {
	if len(fees) == 0 {
		return nil
	}

	rows := make([]*models.UserFee, 0, len(fees))
	for _, fee := range fees {
		rows = append(rows, &models.UserFee{
			UserID:      userID,
			FeeID:       fee.ID,
			TotalAmount: fee.Amount,
			PaidAmount:  decimal.Zero,
			Balance:     fee.Amount,
		})
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

// GetOutstanding gets a user's fees that still carry a positive balance
func (r *feeRepository) GetOutstanding(ctx context.Context, userID string) ([]*models.OutstandingFee, error) {
	var fees []*models.OutstandingFee
	err := r.db.WithContext(ctx).
		Table("user_fees AS uf").
		Select("f.id, f.type, f.description, f.session, uf.total_amount, uf.paid_amount, uf.balance").
		Joins("JOIN fees f ON f.id = uf.fee_id").
		Where("uf.user_id = ? AND uf.balance > 0", userID).
		Order("f.id").
		Scan(&fees).Error
	return fees, err
}

// ListByUser gets every balance row of a user, settled or not
func (r *feeRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserFee, error) {
	var rows []*models.UserFee
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("fee_id").Find(&rows).Error
	return rows, err
}

// GetUserFeeForUpdate reads one balance row and locks it until the
// surrounding transaction ends. Dialects without row locks ignore the clause.
func (r *feeRepository) GetUserFeeForUpdate(ctx context.Context, userID, feeID string) (*models.UserFee, error) {
	var row models.UserFee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND fee_id = ?", userID, feeID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ApplyPayment adds amount to paid_amount and subtracts it from balance.
// The arithmetic runs in SQL so each commit reads the current row. Results
// are rounded to cents since SQLite stores decimals as floats.
func (r *feeRepository) ApplyPayment(ctx context.Context, userID, feeID string, amount decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserFee{}).
		Where("user_id = ? AND fee_id = ?", userID, feeID).
		Updates(map[string]interface{}{
			"paid_amount": gorm.Expr("ROUND(paid_amount + ?, 2)", amount),
			"balance":     gorm.Expr("ROUND(balance - ?, 2)", amount),
		})
	return result.RowsAffected, result.Error
}

// DeleteByUser removes every balance row of a user
func (r *feeRepository) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.UserFee{}).Error
}

// FindInconsistent gets rows where balance != total - paid or paid is negative
func (r *feeRepository) FindInconsistent(ctx context.Context) ([]*models.UserFee, error) {
	var rows []*models.UserFee
	err := r.db.WithContext(ctx).
		Where("ROUND(total_amount - paid_amount - balance, 2) <> 0 OR paid_amount < 0").
		Order("user_id, fee_id").
		Find(&rows).Error
	return rows, err
}
