package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cron         CronConfig
	Scheduler    SchedulerConfig
	SMTP         SMTPConfig
	Google       GoogleConfig
	Kafka        KafkaConfig
	Telemetry    TelemetryConfig
	Availability AvailabilityConfig
	RateLimit    RateLimitConfig
	Seed         SeedConfig
}

type AppConfig struct {
	Port     string
	Env      string
	BaseURL  string
	LogLevel string
	// CORSOrigins is empty to allow any origin.
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type CronConfig struct {
	Secret string
}

type SchedulerConfig struct {
	Enabled bool
	Spec    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}

type AvailabilityConfig struct {
	RangeDays    int
	BusyCacheTTL time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type SeedConfig struct {
	Email    string
	Password string
	Name     string
	Timezone string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// The .env file is optional; plain environment variables are enough.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			BaseURL:     strings.TrimRight(viper.GetString("APP_BASE_URL"), "/"),
			LogLevel:    viper.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: parseDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Cron: CronConfig{
			Secret: viper.GetString("CRON_SECRET"),
		},
		Scheduler: SchedulerConfig{
			Enabled: viper.GetBool("SCHEDULER_ENABLED"),
			Spec:    viper.GetString("SCHEDULER_SPEC"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
			Topic:   viper.GetString("KAFKA_TOPIC"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      viper.GetBool("OTEL_ENABLED"),
			ServiceName:  viper.GetString("OTEL_SERVICE_NAME"),
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  clampRatio(viper.GetFloat64("OTEL_SAMPLING_RATIO")),
		},
		Availability: AvailabilityConfig{
			RangeDays:    viper.GetInt("AVAILABILITY_RANGE_DAYS"),
			BusyCacheTTL: parseDuration("BUSY_CACHE_TTL", time.Minute),
		},
		RateLimit: RateLimitConfig{
			RPS:            viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:          viper.GetInt("RATE_LIMIT_BURST"),
			TrustedProxies: splitList(viper.GetString("RATE_LIMIT_TRUSTED_PROXIES")),
		},
		Seed: SeedConfig{
			Email:    viper.GetString("SEED_PROVIDER_EMAIL"),
			Password: viper.GetString("SEED_PROVIDER_PASSWORD"),
			Name:     viper.GetString("SEED_PROVIDER_NAME"),
			Timezone: viper.GetString("SEED_PROVIDER_TIMEZONE"),
		},
	}

	if config.Google.RedirectURL == "" && config.App.BaseURL != "" {
		config.Google.RedirectURL = config.App.BaseURL + "/api/v1/admin/calendar/callback"
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SCHEDULER_SPEC", "@every 5m")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("KAFKA_TOPIC", "lesson-booking.events")
	viper.SetDefault("OTEL_SERVICE_NAME", "lesson-booking")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SAMPLING_RATIO", 1.0)
	viper.SetDefault("AVAILABILITY_RANGE_DAYS", 28)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("SEED_PROVIDER_NAME", "Teacher")
	viper.SetDefault("SEED_PROVIDER_TIMEZONE", "Europe/Paris")
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

func clampRatio(v float64) float64 {
	if v < 0 || v > 1 {
		return 1
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
