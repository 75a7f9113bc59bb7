package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/unclebandit/outreach-backend/internal/ai"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	AMQPURL         string
	JWTSecret       string
	ShutdownTimeout time.Duration
	ListCacheTTL    time.Duration

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	Model             string
	// CompletionTimeout bounds every model call. Zero disables it.
	CompletionTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENV", "development"),
		DatabaseURL:       DatabaseURL(),
		AMQPURL:           getEnv("AMQP_URL", ""),
		JWTSecret:         getEnv("SUPABASE_JWT_SECRET", ""),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", ai.DefaultBaseURL),
		Model:             getEnv("OPENROUTER_MODEL", ai.DefaultModel),
	}

	var err error
	if cfg.CompletionTimeout, err = getDuration("COMPLETION_TIMEOUT", ai.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ListCacheTTL, err = getDuration("LIST_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	// Validate required environment variables
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"OPENROUTER_API_KEY":  c.OpenRouterAPIKey,
		"SUPABASE_JWT_SECRET": c.JWTSecret,
		"DATABASE_URL":        c.DatabaseURL,
	}

	for name, value := range required {
		if value == "" {
			return fmt.Errorf("missing required environment variable: %s", name)
		}
	}

	if c.CompletionTimeout < 0 {
		return fmt.Errorf("COMPLETION_TIMEOUT must not be negative")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// DatabaseURL returns DATABASE_URL, falling back to a DSN built from DB_* variables.
func DatabaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return dsnFromParts()
}

// dsnFromParts builds a DSN from DB_* variables, or "" when DB_HOST is unset.
func dsnFromParts() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     host + ":" + getEnv("DB_PORT", "5432"),
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + getEnv("DB_SSLMODE", "disable"),
	}
	return u.String()
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
