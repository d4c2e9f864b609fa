package config

import (
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const insecureJWTSecret = "change-me-marketplace-secret"

// Config holds all configuration for the service.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPPort    string `mapstructure:"HTTP_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddress    string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`

	NATSURL     string `mapstructure:"NATS_URL"`
	PushSubject string `mapstructure:"PUSH_SUBJECT"`

	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	SMTPUsername    string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPSenderEmail string `mapstructure:"SMTP_SENDER_EMAIL"`
	SMTPEncryption  string `mapstructure:"SMTP_ENCRYPTION"`

	GoogleUserInfoURL string `mapstructure:"GOOGLE_USERINFO_URL"`
	DefaultCurrency   string `mapstructure:"DEFAULT_CURRENCY"`
	GeoIPDatabasePath string `mapstructure:"GEOIP_DB_PATH"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	PrometheusMetricsPort  string `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")
	ErrMissingMongo     = errors.New("MONGO_URI and MONGO_DATABASE are required")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "marketplace-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MONGO_DATABASE", "marketplace")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRODUCT_CACHE_TTL", "10m")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("PUSH_SUBJECT", "notification.push")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "marketplace-media")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("REFRESH_TOKEN_TTL", "672h")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "")
	v.SetDefault("SMTP_ENCRYPTION", "tls")
	v.SetDefault("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v2/userinfo")
	v.SetDefault("DEFAULT_CURRENCY", "RWF")
	v.SetDefault("GEOIP_DB_PATH", "")
	v.SetDefault("RATE_LIMIT_REQUESTS", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// LoadConfig reads configuration from environment variables.
// The .env file, if any, is loaded by main before this runs.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if err := cfg.validate(appLogger); err != nil {
		return nil, err
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("minio_endpoint", cfg.MinIOEndpoint),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)
	return &cfg, nil
}

func (c *Config) validate(appLogger *logger.Logger) error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWTSecret == insecureJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}
	if c.MongoURI == "" || c.MongoDatabase == "" {
		return ErrMissingMongo
	}
	return nil
}
