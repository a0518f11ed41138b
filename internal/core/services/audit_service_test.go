package services_test

import (
	"context"
	"testing"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/adapters/persistence/repositories"
	"limpay/internal/core/domain"
	"limpay/internal/core/services"
	"limpay/internal/pkg/metrics"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRunAuditAfterPaymentsIsClean(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")
	e.gateway.confirm("pi_1", "1234567", "80", domain.PaymentStatusSucceeded)
	_, err := e.payments.Record(ctx, "1234567", record("80", "fee_dept_24", "pi_1"))
	require.NoError(t, err)

	// A negative balance is credit, not a discrepancy
	rows, err := e.audit.RunAudit(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Equal(t, float64(0), promtest.ToFloat64(metrics.LedgerDiscrepancies))
}

func TestRunAuditReportsDiscrepancies(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "1234567")

	require.NoError(t, e.db.Model(&models.UserFee{}).
		Where("user_id = ? AND fee_id = ?", "1234567", "fee_tuition_24").
		Update("balance", decimal.NewFromInt(1)).Error)

	rows, err := e.audit.RunAudit(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "fee_tuition_24", rows[0].FeeID)
	require.Equal(t, float64(1), promtest.ToFloat64(metrics.LedgerDiscrepancies))
}

func TestAuditSchedule(t *testing.T) {
	e := newEnv(t)
	feeRepo := repositories.NewFeeRepository(e.db)

	disabled := services.NewAuditService(feeRepo, "")
	require.NoError(t, disabled.Start())
	disabled.Stop()

	bad := services.NewAuditService(feeRepo, "not a schedule")
	require.Error(t, bad.Start())

	nightly := services.NewAuditService(feeRepo, "30 2 * * *")
	require.NoError(t, nightly.Start())
	nightly.Stop()
}
