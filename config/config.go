package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Database drivers understood by OpenDatabase
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// defaultCORSOrigins are the local frontend dev servers allowed when CORS_ALLOWED_ORIGINS is unset
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:8080",
	"http://localhost:4200",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:3001",
	"http://127.0.0.1:8080",
	"http://127.0.0.1:4200",
}

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	DBDriver           string
	Port               string
	GoEnv              string
	LogLevel           string
	CORSAllowedOrigins []string

	Auth0Domain   string
	Auth0Audience string

	TwilioAccountSID        string
	TwilioAuthToken         string
	TwilioPhoneNumber       string
	TwilioValidateSignature bool
	TwilioWebhookURL        string

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// In production environment variables are set directly,
		// so it's okay if .env files don't exist
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	return FromEnv()
}

// FromEnv builds a Config from the current process environment without touching .env files
func FromEnv() (*Config, error) {
	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DBDriver:           strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),

		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		TwilioAccountSID:        getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:         getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:       getEnv("TWILIO_PHONE_NUMBER", ""),
		TwilioValidateSignature: getEnvBool("TWILIO_VALIDATE_SIGNATURE", false),
		TwilioWebhookURL:        getEnv("TWILIO_WEBHOOK_URL", ""),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres, mysql or sqlite)", c.DBDriver)
	}

	if c.TwilioValidateSignature {
		if c.TwilioAuthToken == "" {
			return fmt.Errorf("TWILIO_AUTH_TOKEN is required when TWILIO_VALIDATE_SIGNATURE is enabled")
		}
		if c.TwilioWebhookURL == "" {
			return fmt.Errorf("TWILIO_WEBHOOK_URL is required when TWILIO_VALIDATE_SIGNATURE is enabled")
		}
	}

	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// AuthEnabled reports whether admin routes should require an Auth0 token
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != "" && c.Auth0Audience != ""
}

// SMSEnabled reports whether outbound SMS credentials are present
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// StorageEnabled reports whether transcript archiving to S3 is configured
func (c *Config) StorageEnabled() bool {
	return c.AWSS3Bucket != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
