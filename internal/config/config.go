package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBConn        string
	LogLevel      string
	JWTSecret     string
	TokenTTL      time.Duration
	EncryptionKey []byte
	HMACSecret    string
	KeyGenerated  bool

	ClassifierURL string
	OpenAIKey     string
	WhisperModel  string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
	DigestCron   string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=mindlog sslmode=disable"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		HMACSecret:    getEnv("HMAC_SECRET", ""),
		ClassifierURL: getEnv("CLASSIFIER_URL", "http://localhost:8501/classify"),
		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		WhisperModel:  getEnv("WHISPER_MODEL", "whisper-1"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SenderEmail:   getEnv("SENDER_EMAIL", "no-reply@mindlog.local"),
		DigestCron:    getEnv("DIGEST_CRON", "0 9 * * 1"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	// ENCRYPTION_KEY is a hex-encoded 32-byte key. When absent, a fresh key is
	// generated for this process only: entries written under a generated key
	// cannot be decrypted after a restart, so deployments must set the variable.
	if keyHex := getEnv("ENCRYPTION_KEY", ""); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be 32 bytes, got %d", len(key))
		}
		cfg.EncryptionKey = key
	} else {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate encryption key: %w", err)
		}
		cfg.EncryptionKey = key
		cfg.KeyGenerated = true
	}

	if cfg.HMACSecret == "" {
		cfg.HMACSecret = hex.EncodeToString(cfg.EncryptionKey)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
