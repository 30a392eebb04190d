package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Environment string `toml:"-"`

	Host        string
	Port        int
	MetricsHost string `toml:"metrics_host"`
	MetricsPort int    `toml:"metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// record store
	Store                string
	PostgresHost         string `toml:"postgres_host"`
	PostgresPort         string `toml:"postgres_port"`
	PostgresDBName       string `toml:"postgres_db_name"`
	PostgresUser         string `toml:"postgres_user"`
	PostgresEnsureSchema bool   `toml:"postgres_ensure_schema"`

	// sessions
	RedisHost           string   `toml:"redis_host"`
	RedisPort           string   `toml:"redis_port"`
	SessionTTLHours     int      `toml:"session_ttl_hours"`
	LoginRatePerMin     int      `toml:"login_rate_per_min"`
	JWTIssuer           string   `toml:"jwt_issuer"`
	AccessTokenTTLMins  int      `toml:"access_token_ttl_mins"`
	CorsAllowedOrigins  []string `toml:"cors_allowed_origins"`
	SessionsCleanupMins int      `toml:"sessions_cleanup_mins"`

	// activity events, disabled when no brokers are set
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`

	// day boundaries for streaks, server local time when empty
	StreakTimezone string `toml:"streak_timezone"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

// Load reads the TOML file and returns the section for env, with defaults
// filled in for the fields left out.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse does what Load does, for an in-memory document.
func Parse(env, doc string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(doc, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = 2112
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Store == "" {
		c.Store = StoreMemory
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.LoginRatePerMin == 0 {
		c.LoginRatePerMin = 15
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "fitness"
	}
	if c.AccessTokenTTLMins == 0 {
		c.AccessTokenTTLMins = 30
	}
	if c.SessionsCleanupMins == 0 {
		c.SessionsCleanupMins = 60
	}
	if c.KafkaTopic == "" {
		c.KafkaTopic = "fitness-activity"
	}
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres store needs postgres_host and postgres_db_name")
		}
	default:
		return fmt.Errorf("unknown store: %s", c.Store)
	}
	if _, err := c.StreakLocation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLMins) * time.Minute
}

func (c *Config) SessionsCleanupInterval() time.Duration {
	return time.Duration(c.SessionsCleanupMins) * time.Minute
}

func (c *Config) StreakLocation() (*time.Location, error) {
	if c.StreakTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return nil, fmt.Errorf("streak timezone %s: %w", c.StreakTimezone, err)
	}
	return loc, nil
}

// Secrets are never kept in the config file.
type Secrets struct {
	RedisPassword    string `env:"FITNESS_REDIS_PASS"`
	PostgresPassword string `env:"FITNESS_POSTGRES_PASS"`
	JWTSecret        string `env:"FITNESS_JWT_SECRET, required"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME, default=fitness"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var secrets Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &secrets,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}
	return &secrets, nil
}
