package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Fulfillment  FulfillmentConfig  `mapstructure:"fulfillment"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string   `mapstructure:"address"`
	ReadTimeout  int      `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int      `mapstructure:"write_timeout"` // milliseconds
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
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

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// --- Conversation Config ---

// ConversationConfig holds settings for the workflow engine and session store.
type ConversationConfig struct {
	// SessionTTL bounds how long an idle session is retained in Redis,
	// in milliseconds. Ignored by the in-memory store.
	SessionTTL int `mapstructure:"session_ttl"`
	// LockTTL bounds how long a per-session lock may be held before it
	// expires, in milliseconds.
	LockTTL int `mapstructure:"lock_ttl"`
}

// --- Fulfillment Config ---

// FulfillmentConfig holds settings for the fulfillment dispatcher and its
// best-effort downstream notifications.
type FulfillmentConfig struct {
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Reporting ReportingConfig `mapstructure:"reporting"`
}

type WebhookConfig struct {
	URL        string `mapstructure:"url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
	SNS    struct {
		Enabled      bool   `mapstructure:"enabled"`
		PartnerPhone string `mapstructure:"partner_phone"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled      bool   `mapstructure:"enabled"`
		FromEmail    string `mapstructure:"from_email"`
		PartnerEmail string `mapstructure:"partner_email"`
	} `mapstructure:"ses"`
}

// ReportingConfig controls the Elasticsearch reporting index used for
// downstream analytics of dispatched requests.
type ReportingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Index   string `mapstructure:"index"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
