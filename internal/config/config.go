package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kapu/cultureg-bot-go/internal/constants"
	"github.com/kapu/cultureg-bot-go/pkg/errors"
)

type Config struct {
	Discord  DiscordConfig
	Gateway  GatewayConfig
	Quiz     QuizConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type DiscordConfig struct {
	Token   string
	GuildID string
}

type GatewayConfig struct {
	BaseURL string
	WSURL   string
}

type QuizConfig struct {
	AnswerTimeout time.Duration
	MaxConcurrent int
}

// RedisConfig is optional; an empty Host disables interaction de-duplication.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// PostgresConfig is optional; an empty Host keeps the built-in questions.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Discord: DiscordConfig{
			Token:   strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
			GuildID: parseGuildID(getEnv("GUILD_ID", "")),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:3000"),
			WSURL:   getEnv("GATEWAY_WS_URL", "ws://localhost:3000/ws"),
		},
		Quiz: QuizConfig{
			AnswerTimeout: time.Duration(getEnvInt("QUIZ_ANSWER_TIMEOUT_SECONDS", int(constants.QuizConfig.AnswerTimeout/time.Second))) * time.Second,
			MaxConcurrent: getEnvInt("QUIZ_MAX_CONCURRENT", constants.QuizConfig.MaxConcurrent),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", ""),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "cultureg"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "cultureg"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return errors.NewConfigError("DISCORD_TOKEN is missing (set it in the environment or .env)", "DISCORD_TOKEN")
	}
	if c.Gateway.BaseURL == "" {
		return errors.NewConfigError("GATEWAY_BASE_URL is required", "GATEWAY_BASE_URL")
	}
	if c.Gateway.WSURL == "" {
		return errors.NewConfigError("GATEWAY_WS_URL is required", "GATEWAY_WS_URL")
	}
	if c.Quiz.AnswerTimeout <= 0 {
		return errors.NewConfigError("QUIZ_ANSWER_TIMEOUT_SECONDS must be positive", "QUIZ_ANSWER_TIMEOUT_SECONDS")
	}
	if c.Quiz.MaxConcurrent < 1 {
		return errors.NewConfigError("QUIZ_MAX_CONCURRENT must be at least 1", "QUIZ_MAX_CONCURRENT")
	}
	return nil
}

// parseGuildID treats "0" like an unset guild, meaning global registration.
func parseGuildID(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return ""
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
