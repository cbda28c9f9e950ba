package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	GinMode        string
	BotToken       string
	BotPollTimeout string
}

func Load() *Config {
	// A missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "todolist"),
		DBPassword:     getEnv("DB_PASSWORD", "todolist"),
		DBName:         getEnv("DB_NAME", "todolist"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		BotToken:       getEnv("BOT_TOKEN", ""),
		BotPollTimeout: getEnv("BOT_POLL_TIMEOUT", "60"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
