// Package testutil provides an isolated, seeded database for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/config"
	"limpay/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the schema
// migrated and the fee catalog seeded. It is closed when t ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	password.SetCost(bcrypt.MinCost)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s-%s?mode=memory&cache=shared&_foreign_keys=1", name, uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, config.SeedFeeCatalog(db))

	return db
}

// Config returns a dev configuration suitable for tests
func Config() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			Issuer:     "limpay-test",
			TokenHours: 24,
		},
		Payment: config.PaymentConfig{
			DefaultCurrency:   "usd",
			Timeout:           2 * time.Second,
			OverpaymentPolicy: config.OverpaymentAllow,
		},
		Fees: config.FeeConfig{
			DefaultFeeIDs: []string{"fee_tuition_24", "fee_dept_24", "fee_accom_24"},
		},
		Admin: config.AdminConfig{
			ID:       "admin",
			Name:     "Admin User",
			Email:    "admin@limpay.edu",
			Password: "admin-pass",
		},
	}
}
