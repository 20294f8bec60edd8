package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DatabaseURL string
	SecretKey   string
	GuildID     int64
	ServerPort  string
	LogLevel    string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SecretKey:   getEnv("SECRET_KEY", "dev-secret-key"),
		ServerPort:  getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	guildID, err := strconv.ParseInt(getEnv("GUILD_ID", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("GUILD_ID must be an integer: %w", err)
	}
	cfg.GuildID = guildID

	logger.Info().
		Int64("guild_id", cfg.GuildID).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
