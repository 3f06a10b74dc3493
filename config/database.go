package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"clearmed"`
	Password string `env:"PASSWORD" envDefault:"clearmed"`
	Name     string `env:"NAME"     envDefault:"clearmed"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// WebhookResultTTL is how long a synchronously produced webhook result
	// stays resolvable server-side. After expiry the client must fall back
	// to its own cached copy.
	WebhookResultTTL time.Duration `env:"CACHE_WEBHOOK_RESULT_TTL" envDefault:"5m"`

	// SessionTTL is the absolute lifetime of a sign-in session.
	SessionTTL time.Duration `env:"CACHE_SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.WebhookResultTTL <= 0 {
		c.WebhookResultTTL = 5 * time.Minute
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
}
