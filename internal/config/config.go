package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Voting   VotingConfig
	Kafka    KafkaConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// TrustedProxies lists the peers whose forwarding headers are believed.
	// Empty means the client address is always the connection's.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver   string
	URI      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string

	ConnectRetries    int
	ConnectRetryDelay time.Duration
}

type CacheConfig struct {
	Driver string
}

type RedisConfig struct {
	URI          string
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret         string
	ExpirationTime time.Duration
}

type AdminConfig struct {
	Username string
	Password string
}

type VotingConfig struct {
	Window                   time.Duration
	CounterReconcileInterval time.Duration
	LoginRateLimit           int
	LoginRateWindow          time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	Topic          string
	Partitions     int
	QueueSize      int
	PublishTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	defaultJWTSecret = "secret"
	releaseMode      = "release"
)

// LoadConfig reads configuration from the environment, with an optional .env
// file in the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("TRUSTED_PROXIES", "")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "cleverpoll")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("DB_CONNECT_RETRIES", 5)
	v.SetDefault("DB_CONNECT_RETRY_DELAY", 5*time.Second)

	v.SetDefault("CACHE_DRIVER", "redis")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 100)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_READ_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_WRITE_TIMEOUT", 3*time.Second)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")

	v.SetDefault("VOTE_WINDOW", 5*time.Minute)
	v.SetDefault("COUNTER_RECONCILE_INTERVAL", 5*time.Minute)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", time.Minute)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "poll.votes")
	v.SetDefault("KAFKA_PARTITIONS", 3)
	v.SetDefault("KAFKA_QUEUE_SIZE", 1024)
	v.SetDefault("KAFKA_PUBLISH_TIMEOUT", 5*time.Second)

	v.SetDefault("FRONTEND_ORIGIN", "*")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetString("SERVER_PORT"),
			Mode:         v.GetString("GIN_MODE"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),

			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
			URI:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			LogLevel: strings.ToLower(v.GetString("DB_LOG_LEVEL")),

			ConnectRetries:    v.GetInt("DB_CONNECT_RETRIES"),
			ConnectRetryDelay: v.GetDuration("DB_CONNECT_RETRY_DELAY"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(v.GetString("CACHE_DRIVER")),
		},
		Redis: RedisConfig{
			URI:          v.GetString("REDIS_URL"),
			MaxRetries:   v.GetInt("REDIS_MAX_RETRIES"),
			DialTimeout:  v.GetDuration("REDIS_DIAL_TIMEOUT"),
			ReadTimeout:  v.GetDuration("REDIS_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("REDIS_WRITE_TIMEOUT"),
			PoolSize:     v.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: v.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			ExpirationTime: v.GetDuration("JWT_EXPIRATION"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Voting: VotingConfig{
			Window:                   v.GetDuration("VOTE_WINDOW"),
			CounterReconcileInterval: v.GetDuration("COUNTER_RECONCILE_INTERVAL"),
			LoginRateLimit:           v.GetInt("LOGIN_RATE_LIMIT"),
			LoginRateWindow:          v.GetDuration("LOGIN_RATE_WINDOW"),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(v.GetString("KAFKA_BROKERS")),
			Topic:      v.GetString("KAFKA_TOPIC"),
			Partitions: v.GetInt("KAFKA_PARTITIONS"),

			QueueSize:      v.GetInt("KAFKA_QUEUE_SIZE"),
			PublishTimeout: v.GetDuration("KAFKA_PUBLISH_TIMEOUT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: append(splitList(v.GetString("FRONTEND_ORIGIN")), splitList(v.GetString("ALLOWED_ORIGINS"))...),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.Voting.Window <= 0 {
		return fmt.Errorf("VOTE_WINDOW must be positive, got %s", c.Voting.Window)
	}
	if c.JWT.ExpirationTime <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive, got %s", c.JWT.ExpirationTime)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Server.Mode == releaseMode && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed from its default in %s mode", releaseMode)
	}
	return nil
}

// DSN builds the driver connection string, preferring DATABASE_URL when set.
func (d DatabaseConfig) DSN() string {
	if d.URI != "" {
		return d.URI
	}
	if d.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
