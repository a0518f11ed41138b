package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "limpay.db", cfg.Database.DSN)
	require.Equal(t, 24*time.Hour, cfg.JWT.TTL())
	require.Equal(t, OverpaymentAllow, cfg.Payment.OverpaymentPolicy)
	require.Equal(t, []string{"fee_tuition_24", "fee_dept_24", "fee_accom_24"}, cfg.Fees.DefaultFeeIDs)
	require.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadRejectsBadMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsDefaultSecretInProd(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProd())
}

func TestLoadRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("PAYMENT_OVERPAYMENT_POLICY", "cap")

	_, err := Load()
	require.ErrorContains(t, err, "PAYMENT_OVERPAYMENT_POLICY")
}

func TestLoadDefaultFeeIDsFromEnv(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEFAULT_FEE_IDS", " fee_a , ,fee_b")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"fee_a", "fee_b"}, cfg.Fees.DefaultFeeIDs)
}

func TestPostgresDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5432", cfg.Database.Port)
	require.Contains(t, buildPostgresDSN(cfg.Database), "host=db.internal port=5432")
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn := buildSQLiteDSN(DatabaseConfig{Driver: "sqlite", DSN: "data/limpay.db"})
	require.Equal(t, "file:data/limpay.db?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL", dsn)
}
