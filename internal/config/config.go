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

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Blob     BlobConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// SessionConfig holds server-side session row configuration
type SessionConfig struct {
	// WriteTimeout bounds the session-row write at login; on timeout the
	// login degrades to token-only auth instead of blocking sign-in.
	WriteTimeout  time.Duration
	SweepSchedule string
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// BlobConfig holds blob store (MinIO) configuration
type BlobConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	MaxSizeMB    int
	ContentTypes []string
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
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Session:  loadSessionConfig(),
		Cookie:   loadCookieConfig(appMode),
		Blob:     loadBlobConfig(),
	}

	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "peo_doctrack"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "480"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadSessionConfig loads session row config
func loadSessionConfig() SessionConfig {
	timeoutMs, _ := strconv.Atoi(getEnv("SESSION_WRITE_TIMEOUT_MS", "2000"))

	return SessionConfig{
		WriteTimeout:  time.Duration(timeoutMs) * time.Millisecond,
		SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@hourly"),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadBlobConfig loads blob store config
func loadBlobConfig() BlobConfig {
	useSSL, _ := strconv.ParseBool(getEnv("BLOB_USE_SSL", "false"))
	maxSizeMB, _ := strconv.Atoi(getEnv("BLOB_MAX_SIZE_MB", "10"))

	contentTypes := strings.Split(
		getEnv("BLOB_CONTENT_TYPES", "application/pdf,image/png,image/jpeg"), ",")
	for i := range contentTypes {
		contentTypes[i] = strings.TrimSpace(contentTypes[i])
	}

	return BlobConfig{
		Endpoint:     getEnv("BLOB_ENDPOINT", "localhost:9000"),
		AccessKey:    getEnv("BLOB_ACCESS_KEY", "minioadmin"),
		SecretKey:    getEnv("BLOB_SECRET_KEY", "minioadmin"),
		Bucket:       getEnv("BLOB_BUCKET", "doctrack-attachments"),
		UseSSL:       useSSL,
		MaxSizeMB:    maxSizeMB,
		ContentTypes: contentTypes,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://doctrack.peo.gov.ph"
	}
	return origins
}
