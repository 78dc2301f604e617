package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const defaultPath = "config.yaml"

type Config struct {
	Log        Log        `yaml:"log"`
	Server     Server     `yaml:"server"`
	Prediction Prediction `yaml:"prediction"`
	Session    Session    `yaml:"session"`
}

type Server struct {
	// Address to listen on
	Listen string `yaml:"listen" example:":8080" validate:"required"`
	// Path the platform posts fulfillment requests to
	Path string `yaml:"path" example:"/webhook" validate:"required,startswith=/"`
}

type Prediction struct {
	// Base URL of the prediction service
	BaseURL string `yaml:"base_url" example:"http://52.31.27.158:8787" validate:"required,url"`
	// Request timeout, zero means no timeout
	Timeout time.Duration `yaml:"timeout" example:"10s" validate:"gte=0"`
}

type Session struct {
	// Where session facts are kept between turns
	Backend string `yaml:"backend" example:"context" validate:"required,oneof=context memory redis"`
	// Number of turns the facts survive after the last write
	Lifespan int `yaml:"lifespan" example:"100" validate:"gt=0"`
	// Redis backend settings
	Redis Redis `yaml:"redis"`
}

type Redis struct {
	// Redis address
	Addr string `yaml:"addr" example:"localhost:6379"`
	// Redis password
	Password string `yaml:"password"`
	// Redis database index
	DB int `yaml:"db" example:"0" validate:"gte=0"`
	// Idle expiry of a session key
	TTL time.Duration `yaml:"ttl" example:"1h" validate:"gte=0"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	return LoadFile(defaultPath)
}

func LoadFile(path string) (*Config, error) {
	var result Config

	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if err = result.applyEnv(); err != nil {
		return nil, err
	}

	result.applyDefaults()

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	if result.Session.Backend == "redis" && result.Session.Redis.Addr == "" {
		return nil, oops.Errorf("session.redis.addr is required for the redis backend")
	}

	return &result, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if value := os.Getenv(key); value != "" {
			*dst = value
		}
	}

	setString("DRANT_LISTEN", &c.Server.Listen)
	setString("DRANT_PREDICTION_URL", &c.Prediction.BaseURL)
	setString("DRANT_SESSION_BACKEND", &c.Session.Backend)
	setString("DRANT_REDIS_ADDR", &c.Session.Redis.Addr)
	setString("DRANT_TELEGRAM_TOKEN", &c.Log.Telegram.Token)
	setString("DRANT_TELEGRAM_CHAT_ID", &c.Log.Telegram.ChatID)

	if value := os.Getenv("DRANT_SESSION_LIFESPAN"); value != "" {
		lifespan, err := strconv.Atoi(value)
		if err != nil {
			return oops.Errorf("invalid DRANT_SESSION_LIFESPAN %q: %w", value, err)
		}
		c.Session.Lifespan = lifespan
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Path == "" {
		c.Server.Path = "/webhook"
	}
	if c.Prediction.BaseURL == "" {
		c.Prediction.BaseURL = "http://52.31.27.158:8787"
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "context"
	}
	if c.Session.Lifespan == 0 {
		c.Session.Lifespan = 100
	}
	if c.Session.Redis.TTL == 0 {
		c.Session.Redis.TTL = time.Hour
	}
}
