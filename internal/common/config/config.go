// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Mail          MailConfig          `mapstructure:"mail"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	ReadTimeout    int `mapstructure:"read_timeout"`    // seconds
	WriteTimeout   int `mapstructure:"write_timeout"`   // seconds
	RequestTimeout int `mapstructure:"request_timeout"` // seconds, per function invocation
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MailConfig selects and configures the outbound email transport.
type MailConfig struct {
	// Provider is "http" (JSON email API) or "ses".
	Provider  string `mapstructure:"provider"`
	APIURL    string `mapstructure:"api_url"`
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
	AWSRegion string `mapstructure:"aws_region"`
	Timeout   int    `mapstructure:"timeout"` // seconds
}

// NotificationConfig holds the dispatch settings shared by both notification kinds.
type NotificationConfig struct {
	RunIntervalMinutes int    `mapstructure:"run_interval_minutes"`
	DefaultLeadMinutes int    `mapstructure:"default_lead_minutes"`
	DigestHour         int    `mapstructure:"digest_hour"` // local hour for the daily agenda
	PortalURL          string `mapstructure:"portal_url"`
	SchedulerEnabled   bool   `mapstructure:"scheduler_enabled"`
}

type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Name       string `mapstructure:"name"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
