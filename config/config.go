package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported DB_TYPE values.
const (
	DBTypePostgres = "postgres"
	DBTypeSupabase = "supa"
	DBTypeSQLite   = "sqlite"
)

// MinJWTSecretLength is the shortest signing secret accepted outside development.
const MinJWTSecretLength = 32

const developmentJWTSecret = "development-only-secret-change-me"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBType      string   `env:"DB_TYPE" envDefault:"sqlite"`
	DatabaseURL string   `env:"DATABASE_URL"`
	ReplicaURLs []string `env:"DATABASE_REPLICA_URLS" envSeparator:","`
	DBLogLevel  string   `env:"DB_LOG_LEVEL" envDefault:"warn"`
	SQLitePath  string   `env:"SQLITE_PATH" envDefault:"./data/bloggie.db"`
	Supabase    SupabaseConfig

	JWTSecret       string `env:"JWT_SECRET"`
	TokenTTLMinutes int    `env:"TOKEN_TTL_MINUTES" envDefault:"480"`

	SuperAdminEmail    string `env:"SUPERADMIN_EMAIL" envDefault:"superadmin@bloggie.com"`
	SuperAdminPassword string `env:"SUPERADMIN_PASSWORD" envDefault:"SuperAdmin123!"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:","`

	ReadTimeoutSeconds  int `env:"READ_TIMEOUT_SECONDS" envDefault:"180"`
	WriteTimeoutSeconds int `env:"WRITE_TIMEOUT_SECONDS" envDefault:"180"`
	IdleTimeoutSeconds  int `env:"IDLE_TIMEOUT_SECONDS" envDefault:"180"`

	GenerateModels bool   `env:"GENERATE_MODELS" envDefault:"false"`
	GeneratedPath  string `env:"GENERATED_PATH" envDefault:"./generated"`
}

type SupabaseConfig struct {
	Host     string `env:"SUPABASE_DB_HOST"`
	User     string `env:"SUPABASE_DB_USER"`
	Password string `env:"SUPABASE_DB_PASSWORD"`
	Name     string `env:"SUPABASE_DB_NAME"`
	Port     string `env:"SUPABASE_DB_PORT" envDefault:"5432"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Address returns the listen address. Bind to 0.0.0.0 for external access.
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// PostgresDSN builds the connection string for the postgres dialects.
func (c Config) PostgresDSN() string {
	if c.DBType == DBTypeSupabase {
		s := c.Supabase
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			s.Host, s.User, s.Password, s.Name, s.Port)
	}
	return c.DatabaseURL
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBType {
	case DBTypeSQLite:
	case DBTypePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
	case DBTypeSupabase:
		if c.Supabase.Host == "" || c.Supabase.Name == "" {
			return errors.New("SUPABASE_DB_HOST and SUPABASE_DB_NAME are required when DB_TYPE=supa")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = developmentJWTSecret
	}
	if !c.IsDevelopment() && len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d bytes",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}

	if len(c.ReplicaURLs) > 0 && c.DBType == DBTypeSQLite {
		return errors.New("DATABASE_REPLICA_URLS is only supported with a postgres DB_TYPE")
	}

	for i, origin := range c.AcceptedOrigins {
		c.AcceptedOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}
