package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv           string
	AppName          string
	APIPrefix        string
	AppPort          string
	DatabaseURL      string
	JWTSecret        string
	TokenTTLMinutes  int
	CORSAllowOrigins []string
	GrokAPIKey       string
	GrokModel        string
	GrokBaseURL      string
	AITimeoutSeconds int
	AIHistoryLimit   int
	SpeechAPIKey     string
}

func Load() Config {
	_ = godotenv.Load(".env")

	return Config{
		AppEnv:          getEnv("APP_ENV", "local"),
		AppName:         getEnv("APP_NAME", "MindCompanion API"),
		APIPrefix:       getEnv("API_PREFIX", "/api"),
		AppPort:         getEnv("APP_PORT", "5000"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
		CORSAllowOrigins: getEnvCSV(
			"CORS_ALLOW_ORIGINS",
			[]string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"},
		),
		GrokAPIKey:       getEnv("GROK_API_KEY", ""),
		GrokModel:        getEnv("GROK_MODEL", "grok-2-latest"),
		GrokBaseURL:      getEnv("GROK_BASE_URL", "https://api.x.ai/v1"),
		AITimeoutSeconds: getEnvInt("AI_TIMEOUT_SECONDS", 20),
		AIHistoryLimit:   getEnvInt("AI_HISTORY_LIMIT", 10),
		SpeechAPIKey:     getEnv("SPEECH_API_KEY", ""),
	}
}

func (c Config) Validate() error {
	secret := strings.TrimSpace(c.JWTSecret)
	if secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if secret == "your_jwt_secret_key" {
		return errors.New("JWT_SECRET must not use insecure default value")
	}
	if len(secret) < 16 {
		return errors.New("JWT_SECRET is too short; use at least 16 characters")
	}
	if c.TokenTTLMinutes <= 0 {
		return errors.New("TOKEN_TTL_MINUTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvCSV(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, item := range parts {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
