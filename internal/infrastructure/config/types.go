package config

import (
	"strconv"
	"time"
)

const (
	defaultDatabasePort    = 5432
	defaultMaxConnections  = 10
	defaultMaxIdleConns    = 2
	defaultConnMaxLifetime = 5 * time.Minute
	defaultRedisTTL        = 24 * time.Hour
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Enabled         bool          `env:"DATABASE_ENABLED"  yaml:"enabled"`
	Host            string        `env:"DATABASE_HOST"     yaml:"host"`
	Port            int           `env:"DATABASE_PORT"     yaml:"port"`
	User            string        `env:"DATABASE_USER"     yaml:"user"`
	Password        string        `env:"DATABASE_PASSWORD" yaml:"password"`
	Database        string        `env:"DATABASE_NAME"     yaml:"database"`
	SSLMode         string        `env:"DATABASE_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

// URL returns the postgres:// form used by golang-migrate.
func (c *DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) +
		"/" + c.Database + "?sslmode=" + c.SSLMode
}

// SetDefaults applies default values for DatabaseConfig.
func (c *DatabaseConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = defaultDatabasePort
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxConnections == 0 {
		c.MaxConnections = defaultMaxConnections
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetime
	}
}

// RedisConfig holds Redis settings for the provider response cache.
type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED"  yaml:"enabled"`
	URL      string        `env:"REDIS_URL"      yaml:"url"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `env:"REDIS_TTL"      yaml:"ttl"`
}

// SetDefaults applies default values for RedisConfig.
func (c *RedisConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = "localhost:6379"
	}
	if c.TTL == 0 {
		c.TTL = defaultRedisTTL
	}
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// SetDefaults applies default values for LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}
