package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the agent client with
// sensible defaults for local development
type Config struct {
	ServerURL      string
	DBPath         string
	CallbackAddr   string
	RequestTimeout time.Duration
	LogLevel       string
}

// Load reads configuration from the environment, after loading an optional
// .env file. Environment variables always win over .env values.
func Load() (Config, error) {
	// Missing .env is fine; godotenv never overrides real env vars
	_ = godotenv.Load()

	cfg := Config{
		ServerURL:    getEnv("AGENT_SERVER_URL", "http://localhost:8080"),
		DBPath:       getEnv("AGENT_DB_PATH", defaultDBPath()),
		CallbackAddr: getEnv("AGENT_CALLBACK_ADDR", "127.0.0.1:8731"),
		LogLevel:     getEnv("AGENT_LOG_LEVEL", "info"),
	}

	timeoutValue := getEnv("AGENT_REQUEST_TIMEOUT_MS", "30000")
	timeoutMS, err := strconv.Atoi(timeoutValue)
	if err != nil || timeoutMS <= 0 {
		return Config{}, fmt.Errorf("invalid AGENT_REQUEST_TIMEOUT_MS %q", timeoutValue)
	}
	cfg.RequestTimeout = time.Duration(timeoutMS) * time.Millisecond

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agentctl.db"
	}
	return home + "/.agentctl.db"
}
