package config

import (
	"os"
	"strconv"

	"farkle_server/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	AllowedOrigin string
	WinScore      int
}

// Load читает конфигурацию из окружения (.env подхватывается в разработке)
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env не найден, используется только окружение")
	}

	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		WinScore:      getEnvInt("WIN_SCORE", 0),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		logger.Warn("неверное числовое значение в окружении", "key", key, "value", v)
	}
	return fallback
}
