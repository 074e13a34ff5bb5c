package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Portal  PortalConfig
	Session SessionConfig
	Stub    StubConfig
	Log     LogConfig
}

// PortalConfig tunes the remote portal API client and the preregistration
// workflow built on top of it.
type PortalConfig struct {
	BaseURL        string
	Timeout        time.Duration
	PerPage        int
	SearchDebounce time.Duration
	// PruneSucceeded switches SubmitAll from the legacy all-or-nothing clear
	// to removing exactly the items whose create request succeeded.
	PruneSucceeded bool
}

// SessionConfig locates the on-device session database.
type SessionConfig struct {
	Path string
}

// StubConfig configures the local portal API stub.
type StubConfig struct {
	Port           int
	JWTSecret      string
	JWTExpiration  time.Duration
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Portal = PortalConfig{
		BaseURL:        v.GetString("PORTAL_BASE_URL"),
		Timeout:        parseDuration(v.GetString("PORTAL_TIMEOUT"), 15*time.Second),
		PerPage:        v.GetInt("PORTAL_PER_PAGE"),
		SearchDebounce: parseDuration(v.GetString("PORTAL_SEARCH_DEBOUNCE"), 500*time.Millisecond),
		PruneSucceeded: v.GetBool("PORTAL_PRUNE_SUCCEEDED"),
	}

	cfg.Session = SessionConfig{
		Path: v.GetString("SESSION_DB_PATH"),
	}

	cfg.Stub = StubConfig{
		Port:           v.GetInt("STUB_PORT"),
		JWTSecret:      v.GetString("STUB_JWT_SECRET"),
		JWTExpiration:  parseDuration(v.GetString("STUB_JWT_EXPIRATION"), 24*time.Hour),
		AllowedOrigins: splitAndTrim(v.GetString("STUB_ALLOWED_ORIGINS")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("PORTAL_BASE_URL", "http://localhost:8080")
	v.SetDefault("PORTAL_TIMEOUT", "15s")
	v.SetDefault("PORTAL_PER_PAGE", 10)
	v.SetDefault("PORTAL_SEARCH_DEBOUNCE", "500ms")
	v.SetDefault("PORTAL_PRUNE_SUCCEEDED", false)

	v.SetDefault("SESSION_DB_PATH", "portal-session.db")

	v.SetDefault("STUB_PORT", 8080)
	v.SetDefault("STUB_JWT_SECRET", "dev_secret")
	v.SetDefault("STUB_JWT_EXPIRATION", "24h")
	v.SetDefault("STUB_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
