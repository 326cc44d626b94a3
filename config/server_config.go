package config

import (
	"os"
	"time"
)

// ServerConfig holds process-level configuration loaded from environment
// variables.
type ServerConfig struct {
	Addr         string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LoadServerConfig reads the server configuration from the environment,
// falling back to development defaults.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         getEnv("ADDR", ":8080"),
		StaticDir:    getEnv("STATIC_DIR", ""),
		ReadTimeout:  parseDuration(getEnv("READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("WRITE_TIMEOUT", "15s"), 15*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
