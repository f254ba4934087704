package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront-backend/internal/data/db"
	"github.com/yungbote/storefront-backend/internal/platform/envutil"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode         string        `yaml:"log_mode"`
	ServiceName     string        `yaml:"service_name"`
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// SQLitePath is a gorm sqlite DSN, e.g. "file:storefront.db?_foreign_keys=on".
	SQLitePath string `yaml:"sqlite_path"`
}

type AuthConfig struct {
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	JWTIssuer       string        `yaml:"jwt_issuer"`
	JWTAudience     string        `yaml:"jwt_audience"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string      `yaml:"brokers"`
	OrdersTopic        string        `yaml:"orders_topic"`
	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval"`
	OutboxBatchSize    int           `yaml:"outbox_batch_size"`
}

type AnalyticsConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:         "development",
		ServiceName:     "storefront",
		HTTPAddr:        ":8080",
		ShutdownTimeout: 15 * time.Second,
		DB: DBConfig{
			Driver:  db.DriverPostgres,
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "storefront",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			JWTSecretKey:    defaultJWTSecret,
			JWTIssuer:       "storefront",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			OrdersTopic:        "storefront.orders",
			OutboxPollInterval: 2 * time.Second,
			OutboxBatchSize:    100,
		},
		Analytics: AnalyticsConfig{CacheTTL: 5 * time.Minute},
	}
}

// LoadConfig layers defaults, the YAML file named by CONFIG_PATH (if any) and
// environment overrides, in that order.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if path := envutil.String("CONFIG_PATH", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.ServiceName)
	c.HTTPAddr = envutil.String("HTTP_ADDR", c.HTTPAddr)
	c.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.DB.Driver = envutil.String("DB_DRIVER", c.DB.Driver)
	c.DB.Host = envutil.String("POSTGRES_HOST", c.DB.Host)
	c.DB.Port = envutil.String("POSTGRES_PORT", c.DB.Port)
	c.DB.User = envutil.String("POSTGRES_USER", c.DB.User)
	c.DB.Password = envutil.String("POSTGRES_PASSWORD", c.DB.Password)
	c.DB.Name = envutil.String("POSTGRES_NAME", c.DB.Name)
	c.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", c.DB.SSLMode)
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)

	c.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.Auth.JWTSecretKey)
	c.Auth.JWTIssuer = envutil.String("JWT_ISSUER", c.Auth.JWTIssuer)
	c.Auth.JWTAudience = envutil.String("JWT_AUDIENCE", c.Auth.JWTAudience)
	c.Auth.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", c.Auth.AccessTokenTTL)
	c.Auth.RefreshTokenTTL = envutil.Duration("REFRESH_TOKEN_TTL", c.Auth.RefreshTokenTTL)
	c.Auth.CookieSecure = envutil.Bool("AUTH_COOKIE_SECURE", c.Auth.CookieSecure)
	c.Auth.CORSOrigins = envutil.List("CORS_ALLOWED_ORIGINS", c.Auth.CORSOrigins)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)

	c.Kafka.Brokers = envutil.List("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.OrdersTopic = envutil.String("KAFKA_ORDERS_TOPIC", c.Kafka.OrdersTopic)
	c.Kafka.OutboxPollInterval = envutil.Duration("OUTBOX_POLL_INTERVAL", c.Kafka.OutboxPollInterval)
	c.Kafka.OutboxBatchSize = envutil.Int("OUTBOX_BATCH_SIZE", c.Kafka.OutboxBatchSize)

	c.Analytics.CacheTTL = envutil.Duration("ANALYTICS_CACHE_TTL", c.Analytics.CacheTTL)
}

func (c Config) Production() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "prod", "production":
		return true
	}
	return false
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported db driver %q", c.DB.Driver))
	}
	if strings.TrimSpace(c.Auth.JWTSecretKey) == "" {
		errs = append(errs, errors.New("jwt_secret_key is required"))
	} else if c.Production() && c.Auth.JWTSecretKey == defaultJWTSecret {
		errs = append(errs, errors.New("jwt_secret_key must be set in production"))
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token ttls must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) DatabaseConfig() db.Config {
	return db.Config{
		Driver:           c.DB.Driver,
		PostgresHost:     c.DB.Host,
		PostgresPort:     c.DB.Port,
		PostgresUser:     c.DB.User,
		PostgresPassword: c.DB.Password,
		PostgresName:     c.DB.Name,
		PostgresSSLMode:  c.DB.SSLMode,
		SQLitePath:       c.DB.SQLitePath,
	}
}

// RelayEnabled reports whether order events should be shipped to Kafka.
func (c Config) RelayEnabled() bool { return len(c.Kafka.Brokers) > 0 }
