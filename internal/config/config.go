package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"3000" validate:"min=1000,max=65535"`

	PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`

	// Comma-separated words appended to the built-in profanity list.
	ProfanityExtraWords []string `env:"PROFANITY_EXTRA_WORDS" envSeparator:","`

	WsRateLimit float64 `env:"WS_RATE_LIMIT" envDefault:"5"  validate:"min=0"`
	WsRateBurst int     `env:"WS_RATE_BURST" envDefault:"10" validate:"min=1"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
