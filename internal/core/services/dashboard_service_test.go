package services_test

import (
	"context"
	"testing"

	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/core/domain"
	"limpay/internal/core/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAdminDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	dashboard := services.NewDashboardService(e.db, repositories.NewTransactionRepository(e.db))

	data, err := dashboard.GetAdminDashboard(ctx)
	require.NoError(t, err)
	require.Zero(t, data.TotalStudents)
	require.True(t, data.TotalCollected.IsZero())
	require.Empty(t, data.Fees)
	require.NotNil(t, data.RecentTransactions)

	e.register(t, "1234567")
	e.register(t, "2345678")
	e.gateway.confirm("pi_1", "1234567", "100", domain.PaymentStatusSucceeded)
	e.gateway.confirm("pi_2", "2345678", "50", domain.PaymentStatusSucceeded)
	_, err = e.payments.Record(ctx, "1234567", record("100", "fee_tuition_24", "pi_1"))
	require.NoError(t, err)
	_, err = e.payments.Record(ctx, "2345678", record("50", "fee_dept_24", "pi_2"))
	require.NoError(t, err)

	data, err = dashboard.GetAdminDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), data.TotalStudents)
	require.Equal(t, int64(2), data.TotalPayments)
	require.True(t, data.TotalCollected.Equal(decimal.NewFromInt(150)), data.TotalCollected.String())
	require.Equal(t, int64(2), data.PaymentsThisMonth)
	require.True(t, data.AmountThisMonth.Equal(decimal.NewFromInt(150)))
	require.Len(t, data.RecentTransactions, 2)

	// (1200+50+500)*2 owed, 150 paid
	require.True(t, data.TotalOutstanding.Equal(decimal.NewFromInt(3350)), data.TotalOutstanding.String())

	require.Len(t, data.Fees, 3)
	byID := map[string]services.FeeSummary{}
	for _, f := range data.Fees {
		byID[f.FeeID] = f
	}
	require.Equal(t, int64(2), byID["fee_dept_24"].Students)
	require.True(t, byID["fee_dept_24"].Collected.Equal(decimal.NewFromInt(50)))
	require.True(t, byID["fee_dept_24"].Outstanding.Equal(decimal.NewFromInt(50)))
	require.True(t, byID["fee_tuition_24"].Outstanding.Equal(decimal.NewFromInt(2300)))
}
