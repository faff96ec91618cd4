package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Bot      BotConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	UploadDir       string
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
}

// BotConfig holds Telegram bot configuration
type BotConfig struct {
	Token       string
	PollTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_URL", "file:invoices.db"),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 20)) << 20,
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			UploadDir:       getEnv("UPLOAD_DIR", os.TempDir()),
		},
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "rus"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		Bot: BotConfig{
			Token:       getEnv("BOT_TOKEN", ""),
			PollTimeout: getEnvAsDuration("BOT_POLL_TIMEOUT", 30*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return NewAppError("CONFIG_ERROR", "DB_DRIVER must be sqlite or postgres", ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	return nil
}
