// Package config loads runtime settings from .env, an optional YAML file and the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. Never use it in production.
const DefaultSessionSecret = "car-showcase-dev-secret-change-in-production"

// storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// session backends
const (
	BackendMemory = "memory"
	BackendSQL    = "sql"
	BackendRedis  = "redis"
)

type Config struct {
	Env            string `yaml:"env"`
	Addr           string `yaml:"addr"`
	ApplicationURL string `yaml:"application_url"`
	SessionSecret  string `yaml:"session_secret"`
	CookieDomain   string `yaml:"cookie_domain"`
	LogDir         string `yaml:"log_dir"`

	Storage  StorageConfig `yaml:"storage"`
	Sessions SessionConfig `yaml:"sessions"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Tracing  TracingConfig `yaml:"tracing"`
	Seed     SeedConfig    `yaml:"seed"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	RedisURL      string        `yaml:"redis_url"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Max           int           `yaml:"max"`
}

type MetricsConfig struct {
	CloudWatchEnabled bool          `yaml:"cloudwatch_enabled"`
	Namespace         string        `yaml:"namespace"`
	Region            string        `yaml:"region"`
	FlushInterval     time.Duration `yaml:"flush_interval"`
}

type TracingConfig struct {
	XRayEnabled bool   `yaml:"xray_enabled"`
	ServiceName string `yaml:"service_name"`
}

type SeedConfig struct {
	Enabled                bool   `yaml:"enabled"`
	AdminUsername          string `yaml:"admin_username"`
	AdminPassword          string `yaml:"admin_password"`
	MigrateLegacyPasswords bool   `yaml:"migrate_legacy_passwords"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Env:            "development",
		Addr:           ":8080",
		ApplicationURL: "http://localhost:8080",
		SessionSecret:  DefaultSessionSecret,
		LogDir:         "logs",
		Storage:        StorageConfig{Driver: DriverMemory},
		Sessions: SessionConfig{
			Backend:       BackendMemory,
			TTL:           7 * 24 * time.Hour,
			SweepInterval: 24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Namespace:     "CarShowcase",
			Region:        "us-east-1",
			FlushInterval: time.Minute,
		},
		Tracing: TracingConfig{ServiceName: "car-showcase"},
		Seed: SeedConfig{
			Enabled:                true,
			AdminUsername:          "admin",
			AdminPassword:          "adminpassword",
			MigrateLegacyPasswords: true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or $CONFIG_FILE),
// then environment variables. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path) // #nosec
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Env = getEnv("APP_ENV", c.Env)
	c.Addr = getEnv("APP_ADDR", c.Addr)
	c.ApplicationURL = getEnv("APPLICATION_URL", c.ApplicationURL)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.CookieDomain = getEnv("COOKIE_DOMAIN", c.CookieDomain)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("DATABASE_URL", c.Storage.DSN)

	c.Sessions.Backend = getEnv("SESSION_BACKEND", c.Sessions.Backend)
	c.Sessions.RedisURL = getEnv("REDIS_URL", c.Sessions.RedisURL)

	c.Metrics.Namespace = getEnv("CLOUDWATCH_NAMESPACE", c.Metrics.Namespace)
	c.Metrics.Region = getEnv("AWS_REGION", c.Metrics.Region)
	c.Tracing.ServiceName = getEnv("XRAY_SERVICE_NAME", c.Tracing.ServiceName)
	c.Seed.AdminUsername = getEnv("ADMIN_USERNAME", c.Seed.AdminUsername)
	c.Seed.AdminPassword = getEnv("ADMIN_PASSWORD", c.Seed.AdminPassword)

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	c.Sessions.TTL = getEnvAsDuration("SESSION_TTL", c.Sessions.TTL, collect)
	c.Sessions.SweepInterval = getEnvAsDuration("SESSION_SWEEP_INTERVAL", c.Sessions.SweepInterval, collect)
	c.Metrics.FlushInterval = getEnvAsDuration("CLOUDWATCH_FLUSH_INTERVAL", c.Metrics.FlushInterval, collect)
	c.Sessions.Max = getEnvAsInt("SESSION_MAX", c.Sessions.Max, collect)
	c.Metrics.CloudWatchEnabled = getEnvAsBool("CLOUDWATCH_ENABLED", c.Metrics.CloudWatchEnabled, collect)
	c.Tracing.XRayEnabled = getEnvAsBool("XRAY_ENABLED", c.Tracing.XRayEnabled, collect)
	c.Seed.Enabled = getEnvAsBool("SEED_DATA", c.Seed.Enabled, collect)
	c.Seed.MigrateLegacyPasswords = getEnvAsBool("MIGRATE_LEGACY_PASSWORDS", c.Seed.MigrateLegacyPasswords, collect)

	return errors.Join(errs...)
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires DATABASE_URL", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Sessions.Backend {
	case BackendMemory:
	case BackendSQL:
		if !c.UsesSQL() {
			return errors.New("session backend \"sql\" requires a postgres or sqlite3 storage driver")
		}
	case BackendRedis:
		if c.Sessions.RedisURL == "" {
			return errors.New("session backend \"redis\" requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions.Backend)
	}

	if c.Sessions.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Sessions.SweepInterval <= 0 {
		return errors.New("session sweep interval must be positive")
	}
	if c.Sessions.Max < 0 {
		return errors.New("session max must not be negative")
	}
	if c.Metrics.CloudWatchEnabled && c.Metrics.FlushInterval <= 0 {
		return errors.New("cloudwatch flush interval must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("session secret must not be empty")
	}
	return nil
}

// UsesSQL reports whether the entity store lives in a SQL database.
func (c *Config) UsesSQL() bool {
	return c.Storage.Driver == DriverPostgres || c.Storage.Driver == DriverSQLite
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// UsingDefaultSecret reports whether cookies are signed with the built-in development secret.
func (c *Config) UsingDefaultSecret() bool { return c.SessionSecret == DefaultSessionSecret }

// ------------------- env helpers -------------------

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration, onErr func(error)) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		onErr(fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvAsInt(key string, defaultValue int, onErr func(error)) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		onErr(fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool, onErr func(error)) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		onErr(fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return v
}
