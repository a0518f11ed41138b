package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Overpayment policies
const (
	OverpaymentAllow  = "allow"
	OverpaymentReject = "reject"
)

const insecureJWTSecret = "default_secret"

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Payment   PaymentConfig
	Fees      FeeConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Admin     AdminConfig
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port      string
	StaticDir string
	TLSCert   string
	TLSKey    string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // mysql, postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	DSN      string // sqlite file path, or a full DSN overriding the fields above
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret     string
	Issuer     string
	TokenHours int
}

// TTL returns the session token lifetime
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.TokenHours) * time.Hour
}

// PaymentConfig holds card processor configuration
type PaymentConfig struct {
	StripeSecretKey   string
	DefaultCurrency   string
	Timeout           time.Duration
	OverpaymentPolicy string
}

// FeeConfig holds fee ledger configuration
type FeeConfig struct {
	DefaultFeeIDs []string
}

// RateLimitConfig holds per-IP limits; zero disables a limiter
type RateLimitConfig struct {
	Max      int
	AuthMax  int
	RedisURL string
}

// AuditConfig holds the ledger audit schedule (cron syntax, empty disables)
type AuditConfig struct {
	Schedule string
}

// AdminConfig holds the seeded administrator account
type AdminConfig struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		JWT:       loadJWTConfig(),
		Payment:   loadPaymentConfig(),
		Fees:      FeeConfig{DefaultFeeIDs: splitList(getEnv("DEFAULT_FEE_IDS", "fee_tuition_24,fee_dept_24,fee_accom_24"))},
		RateLimit: loadRateLimitConfig(),
		Audit:     AuditConfig{Schedule: getEnv("LEDGER_AUDIT_SCHEDULE", "30 2 * * *")},
		Admin: AdminConfig{
			ID:       getEnv("ADMIN_ID", "admin"),
			Name:     getEnv("ADMIN_NAME", "Admin User"),
			Email:    getEnv("ADMIN_EMAIL", "admin@limpay.edu"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, config.Database.Driver)
	return config, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be mysql, postgres or sqlite)", c.Database.Driver)
	}

	switch c.Payment.OverpaymentPolicy {
	case OverpaymentAllow, OverpaymentReject:
	default:
		return fmt.Errorf("invalid PAYMENT_OVERPAYMENT_POLICY: '%s' (must be allow or reject)", c.Payment.OverpaymentPolicy)
	}

	if c.JWT.TokenHours <= 0 {
		return fmt.Errorf("invalid JWT_TOKEN_HOURS: %d", c.JWT.TokenHours)
	}

	if c.IsProd() && (c.JWT.Secret == "" || c.JWT.Secret == insecureJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in prod mode")
	}

	if len(c.Fees.DefaultFeeIDs) == 0 {
		return fmt.Errorf("DEFAULT_FEE_IDS must list at least one fee")
	}

	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:      getEnv("PORT", "3000"),
		StaticDir: getEnv("STATIC_DIR", ""),
		TLSCert:   getEnv("TLS_CERT_FILE", ""),
		TLSKey:    getEnv("TLS_KEY_FILE", ""),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "sqlite")))

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	defaultDSN := ""
	if driver == "sqlite" {
		defaultDSN = "limpay.db"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", defaultPort),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "limpay"),
		DSN:      getEnv("DB_DSN", defaultDSN),
	}
}

func loadJWTConfig() JWTConfig {
	hours, _ := strconv.Atoi(getEnv("JWT_TOKEN_HOURS", "24"))

	return JWTConfig{
		Secret:     getEnv("JWT_SECRET", insecureJWTSecret),
		Issuer:     getEnv("JWT_ISSUER", "limpay"),
		TokenHours: hours,
	}
}

func loadPaymentConfig() PaymentConfig {
	timeout, _ := strconv.Atoi(getEnv("PAYMENT_TIMEOUT_SECONDS", "15"))
	if timeout <= 0 {
		timeout = 15
	}

	return PaymentConfig{
		StripeSecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
		DefaultCurrency:   strings.ToLower(getEnv("PAYMENT_CURRENCY", "usd")),
		Timeout:           time.Duration(timeout) * time.Second,
		OverpaymentPolicy: strings.ToLower(getEnv("PAYMENT_OVERPAYMENT_POLICY", OverpaymentAllow)),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	limit, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	authMax, _ := strconv.Atoi(getEnv("AUTH_RATE_LIMIT_MAX", "5"))

	return RateLimitConfig{
		Max:      limit,
		AuthMax:  authMax,
		RedisURL: getEnv("REDIS_URL", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("FRONTEND_URL", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://pay.limpay.edu"
	}
	return origins
}
