package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resort-backend/logger"
	"resort-backend/utils"
)

type Config struct {
	Port        string
	Environment string

	// DBDriver is mysql, postgres or memory.
	DBDriver string

	RedisURL          string
	KafkaBrokers      []string
	KafkaKitchenTopic string

	JWTSecret string
	JWTTTL    time.Duration

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	OTLPEndpoint string

	SeedDemoData   bool
	CleaningBuffer time.Duration

	GuestRateLimit  int64
	GuestRateWindow time.Duration

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != "" && s.Username != "" && s.Password != ""
}

// Load reads .env when present, then the process environment.
// The bool reports whether a .env file was loaded.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil

	cfg := Config{
		Port:              utils.EnvOrDefault("PORT", "8080"),
		Environment:       utils.EnvOrDefault("APP_ENV", "development"),
		DBDriver:          strings.ToLower(utils.EnvOrDefault("DB_DRIVER", "mysql")),
		RedisURL:          utils.EnvOrDefault("REDIS_URL", ""),
		KafkaBrokers:      utils.EnvList("KAFKA_BROKERS", nil),
		KafkaKitchenTopic: utils.EnvOrDefault("KAFKA_KITCHEN_TOPIC", "kitchen.orders"),
		JWTSecret:         utils.EnvOrDefault("JWT_SECRET", ""),
		JWTTTL:            utils.EnvDuration("JWT_TTL", 24*time.Hour),
		CORSOrigins:       utils.EnvList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		LogLevel:          utils.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         utils.EnvOrDefault("LOG_FORMAT", "json"),
		OTLPEndpoint:      utils.EnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SeedDemoData:      utils.EnvBool("SEED_DEMO_DATA", false),
		CleaningBuffer:    utils.EnvDuration("CLEANING_BUFFER", time.Hour),
		GuestRateWindow:   utils.EnvDuration("GUEST_RATE_WINDOW", time.Minute),
		SMTP: SMTPConfig{
			Host:     utils.EnvOrDefault("SMTP_HOST", ""),
			Port:     utils.EnvOrDefault("SMTP_PORT", ""),
			Username: utils.EnvOrDefault("SMTP_USERNAME", ""),
			Password: utils.EnvOrDefault("SMTP_PASSWORD", ""),
			FromName: utils.EnvOrDefault("SMTP_FROM_NAME", "Resort"),
		},
	}

	switch cfg.DBDriver {
	case "mysql", "postgres", "memory":
	default:
		return cfg, loaded, errors.New("DB_DRIVER must be mysql, postgres or memory")
	}
	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return cfg, loaded, errors.New("JWT_SECRET environment variable is not set")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}
	limit, err := strconv.ParseInt(utils.EnvOrDefault("GUEST_RATE_LIMIT", "20"), 10, 64)
	if err != nil || limit < 1 {
		return cfg, loaded, errors.New("GUEST_RATE_LIMIT must be a positive integer")
	}
	cfg.GuestRateLimit = limit
	if cfg.CleaningBuffer < 0 {
		return cfg, loaded, errors.New("CLEANING_BUFFER must not be negative")
	}
	return cfg, loaded, nil
}

func (c Config) Logger() logger.Config {
	return logger.Config{
		Level:        logger.Level(c.LogLevel),
		Format:       c.LogFormat,
		Output:       "stdout",
		EnableCaller: true,
		Service:      "resort-backend",
		Environment:  c.Environment,
	}
}
