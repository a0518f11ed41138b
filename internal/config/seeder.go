package config

import (
	"errors"
	"fmt"
	"log"

	"limpay/internal/adapters/persistence/models"
	"limpay/internal/core/domain"
	"limpay/internal/pkg/password"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultFeeCatalog is the 2024/2025 fee catalog seeded at initialization
var DefaultFeeCatalog = []models.Fee{
	{ID: "fee_tuition_24", Type: "Tuition Fee", Description: "Annual Tuition Fee", Amount: decimal.NewFromInt(1200), Session: "2024/2025"},
	{ID: "fee_dept_24", Type: "Departmental Fee", Description: "Departmental Charges", Amount: decimal.NewFromInt(50), Session: "2024/2025"},
	{ID: "fee_accom_24", Type: "Accommodation Fee", Description: "Hostel Accommodation", Amount: decimal.NewFromInt(500), Session: "2024/2025"},
}

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := SeedFeeCatalog(s.db); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// SeedFeeCatalog inserts catalog fees that do not exist yet
func SeedFeeCatalog(db *gorm.DB) error {
	for _, fee := range DefaultFeeCatalog {
		fee := fee
		var existing models.Fee
		err := db.Where("id = ?", fee.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&fee).Error; err != nil {
			return err
		}
		log.Printf("   Created fee: %s (%s)", fee.ID, fee.Amount.StringFixed(2))
	}
	return nil
}

// seedAdminUser seeds the administrator account if none exists
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdmin)).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.Admin.Password == "" {
		log.Println("⚠️ Skipping admin seed: ADMIN_PASSWORD is not set")
		log.Println("   Create an admin with: limpayctl create-admin")
		return nil
	}

	_, err := CreateAdmin(s.db, s.cfg.Admin)
	return err
}

// CreateAdmin creates an administrator account
func CreateAdmin(db *gorm.DB, admin AdminConfig) (*models.User, error) {
	if !password.ValidatePassword(admin.Password) {
		return nil, fmt.Errorf("admin password must be at least %d characters", password.MinLength)
	}

	hashedPassword, err := password.Hash(admin.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           admin.ID,
		Name:         admin.Name,
		Email:        admin.Email,
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleAdmin),
		Faculty:      domain.DefaultFaculty,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Admin user created: %s", user.ID)
	return user, nil
}
