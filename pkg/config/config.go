package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the CV optimizer server.
//
// Backend selection: when DatabaseURL is set the server uses PostgreSQL,
// otherwise it falls back to the embedded SQLite file at SQLitePath. The
// choice is made once at boot.
type Config struct {
	Port        string
	DatabaseURL string
	SQLitePath  string
	UploadDir   string

	SessionSecret     string
	SessionIssuer     string
	SessionTTLMinutes int

	OpenRouterAPIKey string
	OpenRouterBase   string
	OpenRouterModel  string
	AITimeoutSeconds int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	return Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getEnv("SQLITE_PATH", "data/newcvtoai.db"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads/avatars"),
		SessionSecret:     getEnv("SESSION_SECRET", "dev-secret-change"),
		SessionIssuer:     getEnv("SESSION_ISSUER", "newcvtoai"),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 7*24*60),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBase:    getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
		AITimeoutSeconds:  getEnvInt("AI_TIMEOUT_SECONDS", 90),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
