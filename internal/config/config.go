package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Payroll   PayrollConfig
	Payslip   PayslipConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
	// Store selects the repository backend: "postgres" or "memory".
	Store string
	// SeedPath lists employees loaded into the memory store.
	SeedPath string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig bounds requests per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// StorageConfig selects where published payslips are archived.
type StorageConfig struct {
	Driver    string // "local" or "s3"
	LocalPath string
	BaseURL   string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

type PayrollConfig struct {
	Timezone            string
	ExtraHoursThreshold time.Duration
	ExtraHoursCutoff    string // HH:MM
	ExtraHourRate       decimal.Decimal
	ProrationEnabled    bool
	Workers             int
	StructurePath       string
}

type PayslipConfig struct {
	CompanyName    string
	CurrencySymbol string
	Locale         string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "payroll-engine"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store:    getEnv("APP_STORE", "postgres"),
		SeedPath: getEnv("APP_SEED_PATH", "configs/employees.yaml"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	rpm, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{RequestsPerMinute: rpm, Burst: burst}

	config.Storage = StorageConfig{
		Driver:      getEnv("STORAGE_DRIVER", "local"),
		LocalPath:   getEnv("STORAGE_LOCAL_PATH", "./storage"),
		BaseURL:     getEnv("STORAGE_BASE_URL", "/files"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
	}

	// Payroll policy
	threshold, err := time.ParseDuration(getEnv("PAYROLL_EXTRA_HOURS_THRESHOLD", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_EXTRA_HOURS_THRESHOLD: %w", err)
	}
	rate, err := decimal.NewFromString(getEnv("PAYROLL_EXTRA_HOUR_RATE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_EXTRA_HOUR_RATE: %w", err)
	}
	proration, err := strconv.ParseBool(getEnv("PAYROLL_PRORATION_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_PRORATION_ENABLED: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}

	config.Payroll = PayrollConfig{
		Timezone:            getEnv("PAYROLL_TIMEZONE", "Asia/Kolkata"),
		ExtraHoursThreshold: threshold,
		ExtraHoursCutoff:    getEnv("PAYROLL_EXTRA_HOURS_CUTOFF", "17:00"),
		ExtraHourRate:       rate,
		ProrationEnabled:    proration,
		Workers:             workers,
		StructurePath:       getEnv("PAYROLL_STRUCTURE_PATH", "configs/salary_structure.yaml"),
	}

	config.Payslip = PayslipConfig{
		CompanyName:    getEnv("PAYSLIP_COMPANY_NAME", "Odoo India"),
		CurrencySymbol: getEnv("PAYSLIP_CURRENCY_SYMBOL", "₹"),
		Locale:         getEnv("PAYSLIP_LOCALE", "en-IN"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Store != "postgres" && c.App.Store != "memory" {
		return fmt.Errorf("APP_STORE must be postgres or memory")
	}
	if c.App.Store == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "s3" {
		return fmt.Errorf("STORAGE_DRIVER must be local or s3")
	}
	if c.Storage.Driver == "s3" && c.Storage.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.Payroll.ExtraHourRate.IsNegative() {
		return fmt.Errorf("PAYROLL_EXTRA_HOUR_RATE must not be negative")
	}
	if _, _, err := parseClock(c.Payroll.ExtraHoursCutoff); err != nil {
		return fmt.Errorf("PAYROLL_EXTRA_HOURS_CUTOFF: %w", err)
	}
	if _, err := time.LoadLocation(c.Payroll.Timezone); err != nil {
		return fmt.Errorf("PAYROLL_TIMEZONE: %w", err)
	}
	if c.RateLimit.RequestsPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PayrollPolicy builds the resolver policy from the payroll settings.
func (c *Config) PayrollPolicy() (payroll.Policy, error) {
	loc, err := time.LoadLocation(c.Payroll.Timezone)
	if err != nil {
		return payroll.Policy{}, fmt.Errorf("load timezone %q: %w", c.Payroll.Timezone, err)
	}
	hour, minute, err := parseClock(c.Payroll.ExtraHoursCutoff)
	if err != nil {
		return payroll.Policy{}, err
	}

	return payroll.Policy{
		ExtraHoursThreshold: c.Payroll.ExtraHoursThreshold,
		CutoffHour:          hour,
		CutoffMinute:        minute,
		ExtraHourRate:       c.Payroll.ExtraHourRate,
		ProrationEnabled:    c.Payroll.ProrationEnabled,
		Location:            loc,
	}, nil
}

func parseClock(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q, want HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}
