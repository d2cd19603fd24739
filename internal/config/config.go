package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// passed explicitly to the components that need it; request-handling code
// never reads the environment.
type Config struct {
	// Server
	Env           string
	Port          string
	AllowedOrigin string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Session credential
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Passwordless login
	LoginTokenTTL    time.Duration
	LoginTokenLength int
	// LoginTokenDevExpose returns the raw login code in the API response.
	// Honored only outside production; a test-only escape hatch.
	LoginTokenDevExpose bool

	SMTP SMTPConfig
}

// SMTPConfig holds the optional outbound mail transport settings. When
// incomplete, login codes are logged server-side instead of emailed.
type SMTPConfig struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
}

// Configured reports whether the transport has everything it needs to send.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != "" && s.From != ""
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "3333"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "dashfinance"),
		DBPassword: getEnv("DB_PASSWORD", "dashfinance"),
		DBName:     getEnv("DB_NAME", "dashfinance"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		LoginTokenTTL:       time.Duration(getEnvInt("LOGIN_TOKEN_TTL_MINUTES", 10)) * time.Minute,
		LoginTokenLength:    getEnvInt("LOGIN_TOKEN_LENGTH", 6),
		LoginTokenDevExpose: getEnvBool("LOGIN_TOKEN_DEV_EXPOSE", false),

		SMTP: SMTPConfig{
			Host:   getEnv("SMTP_HOST", ""),
			Port:   getEnvInt("SMTP_PORT", 587),
			Secure: getEnvBool("SMTP_SECURE", false),
			User:   getEnv("SMTP_USER", ""),
			Pass:   getEnv("SMTP_PASS", ""),
			From:   getEnv("SMTP_FROM", ""),
		},
	}

	// Session credentials are valid for 7 days unless overridden.
	expStr := getEnv("JWT_EXPIRES_IN", "168h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 168h\n", expStr)
		expDur = 7 * 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1"
}
