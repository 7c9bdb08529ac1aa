package config

import (
	"fmt"
	"time"
)

// DBConfig contains PostgreSQL configuration for the audit trail.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"hrm"`
	Password string `env:"PASSWORD" envDefault:"hrm"`
	Name     string `env:"NAME"     envDefault:"hrm"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production

	// Enabled controls whether the audit trail is persisted at all.
	// Disabled deployments log denials but keep no queryable trail.
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

// DSN renders the connection string for database/sql with the pgx driver.
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// RedisConfig contains Redis configuration for session persistence.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// KeyPrefix scopes every session key, ahead of the per-client part.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"hrm:session:"`

	// SessionTTL bounds how long an idle persisted session survives.
	// Zero disables expiry.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`
}

// Sanitize applies guardrails to Redis configuration values.
func (r *RedisConfig) Sanitize() {
	if r.KeyPrefix == "" {
		r.KeyPrefix = "hrm:session:"
	}
	if r.SessionTTL < 0 {
		r.SessionTTL = 0
	}
}
