package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	MirrorDir     string
	LogLevel      string
	Environment   string
	CORSOrigins   string
	AuthSecret    string
	ReloadOnStart bool
	CompatEnabled bool
	MaxPageSize   int
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		MirrorDir:     getEnv("MIRROR_DIR", "./mirror"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		ReloadOnStart: getEnvBool("RELOAD_ON_START", true),
		CompatEnabled: getEnvBool("COMPAT_ENABLED", true),
		MaxPageSize:   getEnvInt("MAX_PAGE_SIZE", 100),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
