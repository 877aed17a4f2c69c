package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Inspector InspectorConfig
	Container ContainerConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

// LogConfig drives framework/logging.
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

// InspectorConfig controls the HTTP binding inspector.
type InspectorConfig struct {
	Addr    string
	Enabled bool
	Token   string // bearer token; empty means open
}

// ContainerConfig points at the bindings manifest applied at boot.
// An empty Manifest means none.
type ContainerConfig struct {
	Manifest string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", ""),
			Format: env("LOG_FORMAT", ""),
		},
		Inspector: InspectorConfig{
			Addr:    env("INSPECTOR_ADDR", ":8000"),
			Enabled: envBool("INSPECTOR_ENABLED", true),
			Token:   env("INSPECTOR_TOKEN", ""),
		},
		Container: ContainerConfig{
			Manifest: env("CONTAINER_MANIFEST", ""),
		},
	}

	// Debug apps log everything to the console unless told otherwise.
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
		if cfg.App.Debug {
			cfg.Log.Level = "debug"
		}
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
		if cfg.App.Env == "local" {
			cfg.Log.Format = "console"
		}
	}
	return cfg
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
