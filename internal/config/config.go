package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the reference API server settings.
type Config struct {
	Port         string
	Env          string
	DatabaseDSN  string
	JWTSecret    string
	JWTExpiry    time.Duration
	UploadDir    string
	RequireToken bool
	AdminKey     string
}

// ClientConfig holds the survey API client settings.
type ClientConfig struct {
	BaseURL          string
	ConnectTimeoutMs int
	ReadTimeoutMs    int
	WriteTimeoutMs   int
	LogBody          bool
	SessionPath      string
}

const defaultTimeoutMs = 10000

// Load reads the server configuration from the environment.
func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8000"),
		Env:          getEnv("ENV", "development"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/retail_survey?parseTime=true"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:    7 * 24 * time.Hour,
		UploadDir:    getEnv("UPLOAD_DIR", "static/photos"),
		RequireToken: getEnvBool("REQUIRE_TOKEN", false),
		AdminKey:     getEnv("ADMIN_API_KEY", ""),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// LoadClient reads the client configuration from the environment.
func LoadClient() ClientConfig {
	return ClientConfig{
		BaseURL:          getEnv("SURVEY_BASE_URL", "http://localhost:8000/"),
		ConnectTimeoutMs: getEnvInt("SURVEY_CONNECT_TIMEOUT_MS", defaultTimeoutMs),
		ReadTimeoutMs:    getEnvInt("SURVEY_READ_TIMEOUT_MS", defaultTimeoutMs),
		WriteTimeoutMs:   getEnvInt("SURVEY_WRITE_TIMEOUT_MS", defaultTimeoutMs),
		LogBody:          getEnvBool("SURVEY_LOG_BODY", false),
		SessionPath:      getEnv("SURVEY_SESSION_PATH", "survey_session.db"),
	}
}

// DefaultClient returns the client configuration used when nothing is set.
func DefaultClient() ClientConfig {
	return ClientConfig{
		BaseURL:          "http://localhost:8000/",
		ConnectTimeoutMs: defaultTimeoutMs,
		ReadTimeoutMs:    defaultTimeoutMs,
		WriteTimeoutMs:   defaultTimeoutMs,
		SessionPath:      "survey_session.db",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("ignoring invalid boolean setting", "key", key, "value", v)
		return fallback
	}
	return b
}
