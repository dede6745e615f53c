package env

import (
	"os"
)

const (
	RelayPort      = "RELAY_PORT"
	AllowedOrigins = "ALLOWED_ORIGINS"
	ChatRedisURL   = "CHAT_REDIS_URL"
	ChatRedisPass  = "CHAT_REDIS_PASS"
)

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("env: required environment variable not set: " + key)
	}
	return val
}
