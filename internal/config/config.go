package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Config is process-wide configuration loaded once at startup.
type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	// JWTSecret signs bearer tokens. It must come from the environment;
	// outside development an empty value is a startup error.
	JWTSecret string
	// ResetBaseURL prefixes password-reset links (the token is appended).
	ResetBaseURL string
	// CORSOrigins is the comma-separated allowlist for browser clients.
	CORSOrigins []string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() (Config, error) {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:furnistore.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.ResetBaseURL = getEnv("RESET_BASE_URL", "http://localhost:3003/reset-password/")
	cfg.CORSOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3003"))

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return cfg, fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", cfg.Env)
		}
		// Dev convenience: random per-process secret. Tokens do not survive
		// a restart, which is acceptable for local work and avoids shipping
		// a well-known literal.
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return cfg, fmt.Errorf("generate dev jwt secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
