package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/autoauction/go/internal/auction/gateway"
	"github.com/rs/zerolog"
)

// Config holds the auction server settings
type Config struct {
	Port           string
	LogLevel       zerolog.Level
	StaticDir      string
	CatalogFile    string
	AllowedOrigins []string
	Connection     gateway.ConnectionConfig
}

func loadConfig() (Config, error) {
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse LOG_LEVEL: %w", err)
	}

	conn := gateway.DefaultConnectionConfig()
	if conn.PingInterval, err = getEnvAsDuration("WS_PING_INTERVAL", conn.PingInterval); err != nil {
		return Config{}, err
	}
	if conn.ReadTimeout, err = getEnvAsDuration("WS_READ_TIMEOUT", conn.ReadTimeout); err != nil {
		return Config{}, err
	}
	if conn.WriteTimeout, err = getEnvAsDuration("WS_WRITE_TIMEOUT", conn.WriteTimeout); err != nil {
		return Config{}, err
	}
	conn.SendBufferSize = getEnvAsInt("WS_SEND_BUFFER", conn.SendBufferSize)

	if conn.PingInterval >= conn.ReadTimeout {
		return Config{}, fmt.Errorf("WS_PING_INTERVAL (%s) must be shorter than WS_READ_TIMEOUT (%s)",
			conn.PingInterval, conn.ReadTimeout)
	}

	origins := splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	conn.CheckOrigin = originChecker(origins)

	return Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       level,
		StaticDir:      getEnv("STATIC_DIR", "./public"),
		CatalogFile:    getEnv("CATALOG_FILE", ""),
		AllowedOrigins: origins,
		Connection:     conn,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// originChecker mirrors the CORS allow-list for WebSocket upgrades
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
