package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	MigrateOnStart    bool
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Location is the single timezone every schedule and booking is interpreted in.
	Location *time.Location

	RequireEmailVerification bool
	CodeLength               int
	CodeMaxAttempts          int
	MaxRangeDays             int
	PublicBaseURL            string

	SMTP   SMTPConfig
	Twilio TwilioConfig

	StoragePath   string
	PhotoMaxBytes int64

	// AdminEmail and AdminPassword seed the first admin account when both are set.
	AdminEmail    string
	AdminPassword string
}

// SMTPConfig configures the e-mail notifier. An empty Host disables it.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Timeout bounds one delivery, dial included.
	Timeout time.Duration
}

// TwilioConfig configures the SMS/WhatsApp notifier. An empty AccountSID disables it.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string

	// WhatsAppFrom is the sender for "whatsapp:" recipients; defaults to From.
	WhatsAppFrom string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.MigrateOnStart, err = getEnvAsBool("MIGRATE_ON_START", true)
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Scheduling timezone (default: UTC)
	cfg.Location, err = time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	cfg.RequireEmailVerification, err = getEnvAsBool("RESERVATION_REQUIRE_EMAIL_VERIFICATION", true)
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVATION_REQUIRE_EMAIL_VERIFICATION: %w", err)
	}

	cfg.CodeLength, err = getEnvAsPositiveInt("RESERVATION_CODE_LENGTH", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVATION_CODE_LENGTH: %w", err)
	}

	cfg.CodeMaxAttempts, err = getEnvAsPositiveInt("RESERVATION_CODE_MAX_ATTEMPTS", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVATION_CODE_MAX_ATTEMPTS: %w", err)
	}

	cfg.MaxRangeDays, err = getEnvAsPositiveInt("AVAILABILITY_MAX_RANGE_DAYS", 62)
	if err != nil {
		return nil, fmt.Errorf("invalid AVAILABILITY_MAX_RANGE_DAYS: %w", err)
	}

	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:8080")

	// Notifiers are optional
	cfg.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "noreply@localhost"),
	}
	cfg.SMTP.Port, err = getEnvAsInt("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTP.Timeout, err = time.ParseDuration(getEnv("SMTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_TIMEOUT: %w", err)
	}

	cfg.Twilio = TwilioConfig{
		AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		From:       getEnv("TWILIO_FROM", ""),
	}
	cfg.Twilio.WhatsAppFrom = getEnv("TWILIO_WHATSAPP_FROM", cfg.Twilio.From)

	cfg.StoragePath = getEnv("STORAGE_PATH", "./storage")

	// Photo upload limit in bytes (default: 5 MiB)
	maxBytes, err := getEnvAsInt("PHOTO_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid PHOTO_MAX_BYTES: %w", err)
	}
	cfg.PhotoMaxBytes = int64(maxBytes)

	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsPositiveInt is getEnvAsInt for settings that must be at least 1.
func getEnvAsPositiveInt(key string, defaultValue int) (int, error) {
	val, err := getEnvAsInt(key, defaultValue)
	if err != nil {
		return 0, err
	}
	if val < 1 {
		return 0, fmt.Errorf("env %s value %d must be positive", key, val)
	}
	return val, nil
}

// getEnvAsBool is the boolean counterpart of getEnvAsInt.
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("env %s value %q is not a valid boolean: %w", key, valStr, err)
	}

	return val, nil
}
