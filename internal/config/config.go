// Package config provides configuration management for the state service.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by kv.Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Toasts  ToastConfig
	Logging LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the key/value backend.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type StorageConfig struct {
	Driver          string
	ConnectAttempts uint
	ConnectDelay    time.Duration
	Memory          MemoryConfig
	File            FileConfig
	SQLite          SQLiteConfig
	Postgres        PostgresConfig
	Redis           RedisConfig
}

// MemoryConfig configures the in-process backend.
type MemoryConfig struct {
	QuotaBytes int
}

// FileConfig configures the one-file-per-key backend.
type FileConfig struct {
	Dir string
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string
}

// PostgresConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type PostgresConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int32
	MinConnections int32
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ToastConfig controls where user-visible confirmations are delivered.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ToastConfig struct {
	HistorySize int
	WebSocket   bool
	RabbitMQ    RabbitMQConfig
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Enabled    bool
	Host       string
	User       string
	Password   string
	Exchange   string
	RoutingKey string
	Port       int
	BufferSize int
}

// URL returns the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load loads configuration from an optional .env file, an optional
// config.yaml and APP_-prefixed environment variables, in increasing order of
// precedence.
func Load() (*Config, error) {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Driver == DriverFile && c.Storage.File.Dir == "" {
		return fmt.Errorf("storage.file.dir is required for the file driver")
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.SQLite.Path == "" {
		return fmt.Errorf("storage.sqlite.path is required for the sqlite driver")
	}
	if c.Toasts.HistorySize < 0 {
		return fmt.Errorf("toasts.historysize must not be negative")
	}

	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Storage
	viper.SetDefault("storage.driver", DriverMemory)
	viper.SetDefault("storage.connectattempts", 5)
	viper.SetDefault("storage.connectdelay", time.Second)
	viper.SetDefault("storage.memory.quotabytes", 5*1024*1024)
	viper.SetDefault("storage.file.dir", "./data/state")
	viper.SetDefault("storage.sqlite.path", "./data/state.db")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", 5432)
	viper.SetDefault("storage.postgres.name", "clonestate")
	viper.SetDefault("storage.postgres.user", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.sslmode", "disable")
	viper.SetDefault("storage.postgres.maxconnections", 10)
	viper.SetDefault("storage.postgres.minconnections", 2)
	viper.SetDefault("storage.postgres.maxidletime", 10*time.Minute)
	viper.SetDefault("storage.postgres.maxlifetime", 1*time.Hour)
	viper.SetDefault("storage.redis.addr", "localhost:6379")
	viper.SetDefault("storage.redis.password", "")
	viper.SetDefault("storage.redis.db", 0)

	// Toasts
	viper.SetDefault("toasts.historysize", 50)
	viper.SetDefault("toasts.websocket", true)
	viper.SetDefault("toasts.rabbitmq.enabled", false)
	viper.SetDefault("toasts.rabbitmq.host", "localhost")
	viper.SetDefault("toasts.rabbitmq.port", 5672)
	viper.SetDefault("toasts.rabbitmq.user", "guest")
	viper.SetDefault("toasts.rabbitmq.password", "guest")
	viper.SetDefault("toasts.rabbitmq.exchange", "clonestate.toasts")
	viper.SetDefault("toasts.rabbitmq.routingkey", "toast.created")
	viper.SetDefault("toasts.rabbitmq.buffersize", 256)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.maxsizemb", 50)
	viper.SetDefault("logging.maxbackups", 5)
	viper.SetDefault("logging.maxagedays", 30)
}
