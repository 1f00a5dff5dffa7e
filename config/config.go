package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values. It is built once
// during boot and passed explicitly to the components that need it; sensitive
// values have no in-code defaults and must come from the environment.
type AppConfig struct {
	AppPort string
	GinMode string

	// Token signing
	JWTSecret          string
	TokenExpireMinutes int

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// Load reads configuration from the environment, with .env support for local
// development. It returns an error instead of exiting so callers own the
// failure path.
func Load() (AppConfig, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := AppConfig{
		AppPort:            getEnv("APP_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "release"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 30),
		DatabaseURI:        os.Getenv("DATABASE_URI"),
		DBHost:             getEnv("DB_HOST", "127.0.0.1"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             getEnv("DB_NAME", "gosocial"),
		AllowedOrigins:     splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPath:            os.Getenv("LOG_PATH"),
		LogMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:      getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:        getEnv("LOG_COMPRESS", "") == "true",
	}

	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.TokenExpireMinutes <= 0 {
		return AppConfig{}, fmt.Errorf("TOKEN_EXPIRE_MINUTES must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return i
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
