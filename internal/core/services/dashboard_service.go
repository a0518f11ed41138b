package services

import (
	"context"
	"time"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const recentTransactionsLimit = 10

// DashboardService aggregates fee collection figures for administrators
type DashboardService struct {
	db      *gorm.DB
	txnRepo repositories.TransactionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, txnRepo repositories.TransactionRepository) *DashboardService {
	return &DashboardService{db: db, txnRepo: txnRepo}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalStudents     int64           `json:"total_students"`
	TotalPayments     int64           `json:"total_payments"`
	TotalCollected    decimal.Decimal `json:"total_collected"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	PaymentsThisMonth int64           `json:"payments_this_month"`
	AmountThisMonth   decimal.Decimal `json:"amount_this_month"`

	Fees               []FeeSummary                     `json:"fees"`
	RecentTransactions []*models.TransactionWithStudent `json:"recent_transactions"`
}

// FeeSummary represents collection progress for one catalog fee
type FeeSummary struct {
	FeeID       string          `json:"fee_id"`
	Description string          `json:"description"`
	Students    int64           `json:"students"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type paymentTotals struct {
	Payments  int64
	Collected decimal.Decimal
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	db := s.db.WithContext(ctx)
	data := &AdminDashboardData{}

	if err := db.Model(&models.User{}).Where("role = ?", "student").Count(&data.TotalStudents).Error; err != nil {
		return nil, err
	}

	// All-time totals
	var all paymentTotals
	if err := db.Table("transactions").
		Select("COUNT(*) AS payments, COALESCE(SUM(amount), 0) AS collected").
		Scan(&all).Error; err != nil {
		return nil, err
	}
	data.TotalPayments, data.TotalCollected = all.Payments, all.Collected

	// This month statistics
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var month paymentTotals
	if err := db.Table("transactions").
		Where("created_at >= ?", startOfMonth).
		Select("COUNT(*) AS payments, COALESCE(SUM(amount), 0) AS collected").
		Scan(&month).Error; err != nil {
		return nil, err
	}
	data.PaymentsThisMonth, data.AmountThisMonth = month.Payments, month.Collected

	// Per-fee progress; credit balances do not count as outstanding
	if err := db.Table("user_fees AS uf").
		Select(`
			uf.fee_id,
			f.description,
			COUNT(*) AS students,
			COALESCE(SUM(uf.paid_amount), 0) AS collected,
			COALESCE(SUM(CASE WHEN uf.balance > 0 THEN uf.balance ELSE 0 END), 0) AS outstanding
		`).
		Joins("JOIN fees AS f ON f.id = uf.fee_id").
		Group("uf.fee_id, f.description").
		Order("uf.fee_id").
		Scan(&data.Fees).Error; err != nil {
		return nil, err
	}
	if data.Fees == nil {
		data.Fees = []FeeSummary{}
	}

	data.TotalOutstanding = decimal.Zero
	for _, f := range data.Fees {
		data.TotalOutstanding = data.TotalOutstanding.Add(f.Outstanding)
	}

	recent, _, err := s.txnRepo.ListAll(ctx, pagination.New(1, recentTransactionsLimit))
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []*models.TransactionWithStudent{}
	}
	data.RecentTransactions = recent

	return data, nil
}
