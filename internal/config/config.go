package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment" default:"development"`

	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"0s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
	} `yaml:"log"`

	OpenAI struct {
		Endpoint       string        `yaml:"endpoint" default:"https://api.openai.com/v1/chat/completions"`
		Model          string        `yaml:"model" default:"gpt-3.5-turbo"`
		APIKeyEnv      string        `yaml:"api_key_env" default:"OPENAI_API_KEY"`
		SystemPrompt   string        `yaml:"system_prompt" default:"You are a crypto prediction assistant."`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		MaxRetries     int           `yaml:"max_retries"`
		RequestsPerSec int           `yaml:"requests_per_sec" default:"5"`
	} `yaml:"openai"`

	Auth struct {
		SimulatedDelay time.Duration `yaml:"simulated_delay" default:"1s"`
		SessionTTL     time.Duration `yaml:"session_ttl" default:"24h"`
		Backend        string        `yaml:"backend" default:"memory"`
	} `yaml:"auth"`

	Redis struct {
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"cryptopredict"`
	} `yaml:"redis"`

	Database struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     string `yaml:"port" default:"5432"`
		User     string `yaml:"user" default:"postgres"`
		Password string `yaml:"password"`
		Name     string `yaml:"name" default:"cryptopredict"`
		SSLMode  string `yaml:"sslmode" default:"disable"`
	} `yaml:"database"`

	History struct {
		MemoryLimit int `yaml:"memory_limit" default:"500"`
	} `yaml:"history"`

	Kafka struct {
		Enabled        bool          `yaml:"enabled"`
		Brokers        []string      `yaml:"brokers"`
		Topic          string        `yaml:"topic" default:"cryptopredict.predictions"`
		MaxAttempts    int           `yaml:"max_attempts" default:"3"`
		WriteTimeout   time.Duration `yaml:"write_timeout" default:"10s"`
		PublishTimeout time.Duration `yaml:"publish_timeout" default:"2s"`
		Async          bool          `yaml:"async" default:"true"`
	} `yaml:"kafka"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnvWithDefault("APP_ENV", c.Environment)

	c.Server.Host = getEnvWithDefault("HTTP_HOST", c.Server.Host)
	c.Server.Port = getEnvIntWithDefault("HTTP_PORT", c.Server.Port)

	c.Log.Level = getEnvWithDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvWithDefault("LOG_FORMAT", c.Log.Format)

	c.OpenAI.Endpoint = getEnvWithDefault("OPENAI_ENDPOINT", c.OpenAI.Endpoint)
	c.OpenAI.Model = getEnvWithDefault("OPENAI_MODEL", c.OpenAI.Model)
	c.OpenAI.APIKeyEnv = getEnvWithDefault("OPENAI_API_KEY_ENV", c.OpenAI.APIKeyEnv)
	c.OpenAI.RequestTimeout = getEnvDurationWithDefault("OPENAI_REQUEST_TIMEOUT", c.OpenAI.RequestTimeout)
	c.OpenAI.MaxRetries = getEnvIntWithDefault("OPENAI_MAX_RETRIES", c.OpenAI.MaxRetries)

	c.Auth.SimulatedDelay = getEnvDurationWithDefault("AUTH_SIMULATED_DELAY", c.Auth.SimulatedDelay)
	c.Auth.SessionTTL = getEnvDurationWithDefault("AUTH_SESSION_TTL", c.Auth.SessionTTL)
	c.Auth.Backend = getEnvWithDefault("AUTH_BACKEND", c.Auth.Backend)

	c.Redis.Addr = getEnvWithDefault("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvWithDefault("REDIS_PASSWORD", c.Redis.Password)

	c.Database.Enabled = getEnvBoolWithDefault("DB_ENABLED", c.Database.Enabled)
	c.Database.Host = getEnvWithDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvWithDefault("DB_PORT", c.Database.Port)
	c.Database.User = getEnvWithDefault("DB_USER", c.Database.User)
	c.Database.Password = getEnvWithDefault("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnvWithDefault("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", c.Database.SSLMode)

	c.Kafka.Enabled = getEnvBoolWithDefault("KAFKA_ENABLED", c.Kafka.Enabled)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	c.Kafka.Topic = getEnvWithDefault("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.Async = getEnvBoolWithDefault("KAFKA_ASYNC", c.Kafka.Async)

	c.Metrics.Enabled = getEnvBoolWithDefault("METRICS_ENABLED", c.Metrics.Enabled)

	c.Telegram.Token = getEnvWithDefault("TELEGRAM_BOT_TOKEN", c.Telegram.Token)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.OpenAI.Endpoint == "" {
		errs = append(errs, errors.New("openai.endpoint is required"))
	}
	if c.OpenAI.MaxRetries < 0 {
		errs = append(errs, errors.New("openai.max_retries cannot be negative"))
	}
	if c.Auth.Backend != "memory" && c.Auth.Backend != "redis" {
		errs = append(errs, fmt.Errorf("auth.backend must be 'memory' or 'redis', got '%s'", c.Auth.Backend))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers cannot be empty when kafka is enabled"))
	}
	return errors.Join(errs...)
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
