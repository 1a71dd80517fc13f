package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config — конфигурация процесса. Собирается один раз при старте и дальше
// только читается (секрет подписи и TTL токена неизменяемы во время работы).
type Config struct {
	Addr      string
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadEnv подгружает .env (если есть)
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

// GetEnv возвращает обязательную переменную окружения
func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("environment variable %s is not set", key)
	}
	return value
}

// GetEnvDefault возвращает переменную окружения или значение по умолчанию
func GetEnvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

// Load читает .env и собирает Config
func Load() *Config {
	LoadEnv()

	ttl := time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid TOKEN_TTL %q: %v", raw, err)
		}
		ttl = parsed
	}

	return &Config{
		Addr:      GetEnvDefault("ADDR", ":8080"),
		JWTSecret: GetEnv("JWT_SECRET"),
		TokenTTL:  ttl,
	}
}
