package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Billing   BillingConfig   `mapstructure:"billing"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Schema    SchemaConfig    `mapstructure:"schema"`

	// Runtime flags set from the command line, not the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// CatalogConfig holds the prefix patterns that split the lesson set into the
// grammar and vocabulary navigation groups, plus the advisory tree cache TTL.
type CatalogConfig struct {
	GrammarPrefixes    []string `mapstructure:"grammar_prefixes"`
	VocabularyPrefixes []string `mapstructure:"vocabulary_prefixes"`
	CacheTTLMinutes    int      `mapstructure:"cache_ttl_minutes"`
}

// Topic key modes for topic_stats reads. A schema revision split the flat
// topic string into topic_code/subtopic_code; which shape the read paths group
// by is fixed here at startup instead of probed per request.
const (
	TopicKeyFlat  = "flat"
	TopicKeySplit = "split"
)

type SchemaConfig struct {
	TopicKeyMode string `mapstructure:"topic_key_mode"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("ENGLISH_EDU")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Auth / external providers
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("telegram.bot_token", "TELEGRAM_BOT_TOKEN")
	viper.BindEnv("billing.webhook_secret", "BILLING_WEBHOOK_SECRET")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	viper.SetDefault("schema.topic_key_mode", TopicKeyFlat)
	viper.SetDefault("catalog.cache_ttl_minutes", 5)
	viper.SetDefault("catalog.grammar_prefixes", []string{
		"Grammar", "📚", "📌", "🧱", "🛠", "🚫",
	})
	viper.SetDefault("catalog.vocabulary_prefixes", []string{
		"Vocabulary", "Vocab", "🧠",
	})

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Schema.TopicKeyMode != TopicKeyFlat && cfg.Schema.TopicKeyMode != TopicKeySplit {
		return nil, fmt.Errorf("schema.topic_key_mode must be %q or %q, got %q", TopicKeyFlat, TopicKeySplit, cfg.Schema.TopicKeyMode)
	}

	return &cfg, nil
}

// GroupPrefixes returns the prefix patterns for a catalog group, or nil for an
// unknown group name.
func (c *CatalogConfig) GroupPrefixes(group string) []string {
	switch group {
	case "grammar":
		return c.GrammarPrefixes
	case "vocabulary":
		return c.VocabularyPrefixes
	}
	return nil
}
