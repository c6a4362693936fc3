package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	rq := require.New(t)

	for _, key := range []string{"PORT", "LOG_LEVEL", "STATIC_DIR", "CATALOG_FILE", "CORS_ALLOWED_ORIGINS",
		"WS_PING_INTERVAL", "WS_READ_TIMEOUT", "WS_WRITE_TIMEOUT", "WS_SEND_BUFFER"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	rq.NoError(err)
	rq.Equal("8080", cfg.Port)
	rq.Equal(zerolog.InfoLevel, cfg.LogLevel)
	rq.Equal("./public", cfg.StaticDir)
	rq.Empty(cfg.CatalogFile)
	rq.Equal([]string{"*"}, cfg.AllowedOrigins)
	rq.Equal(30*time.Second, cfg.Connection.PingInterval)
	rq.Equal(60*time.Second, cfg.Connection.ReadTimeout)
	rq.Equal(256, cfg.Connection.SendBufferSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WS_PING_INTERVAL", "5s")
	t.Setenv("WS_READ_TIMEOUT", "20s")
	t.Setenv("WS_SEND_BUFFER", "16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := loadConfig()
	rq.NoError(err)
	rq.Equal("9090", cfg.Port)
	rq.Equal(zerolog.DebugLevel, cfg.LogLevel)
	rq.Equal(5*time.Second, cfg.Connection.PingInterval)
	rq.Equal(20*time.Second, cfg.Connection.ReadTimeout)
	rq.Equal(16, cfg.Connection.SendBufferSize)
	rq.Equal([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad duration", env: map[string]string{"WS_READ_TIMEOUT": "soon"}},
		{name: "ping after read timeout", env: map[string]string{"WS_PING_INTERVAL": "2m", "WS_READ_TIMEOUT": "1m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}

func TestOriginChecker(t *testing.T) {
	rq := require.New(t)

	check := originChecker([]string{"https://a.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws/auction", nil)
	rq.True(check(req))

	req.Header.Set("Origin", "https://a.example")
	rq.True(check(req))

	req.Header.Set("Origin", "https://evil.example")
	rq.False(check(req))

	req.Header.Set("Origin", "https://evil.example")
	rq.True(originChecker([]string{"*"})(req))
}
