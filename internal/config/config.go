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

type Config struct {
	Port           string
	DBUrl          string
	DBMaxConns     int32
	EncryptionKey  string
	CatalogBaseURL string
	CatalogTimeout time.Duration
	ClientSites    []string
	AppEnv         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Message bodies cannot be persisted without the encryption key, so a
	// missing key is a startup failure rather than a per-request error.
	encryptionKey, exists := os.LookupEnv("ENCRYPTION_KEY")
	if !exists || encryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DB_URL", ""),
		DBMaxConns:     getEnvInt32("DB_MAX_CONNS", 10),
		EncryptionKey:  encryptionKey,
		CatalogBaseURL: getEnv("CATALOG_BASE_URL", ""),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		ClientSites:    splitList(getEnv("CLIENT_SITES", "http://localhost:3030")),
		AppEnv:         normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return int32(parsed)
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
