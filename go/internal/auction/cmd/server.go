package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mcdev12/autoauction/go/internal/auction/gateway"
	"github.com/mcdev12/autoauction/go/internal/auction/page"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type routes struct {
	gateway *gateway.Service
	page    *page.Handler
	metrics http.Handler
}

func setupServer(cfg Config, r routes) *http.Server {
	mux := newMux(cfg, r)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h2c.NewHandler(c.Handler(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func newMux(cfg Config, r routes) *http.ServeMux {
	mux := http.NewServeMux()

	r.page.RegisterRoutes(mux)
	r.gateway.RegisterRoutes(mux)
	mux.Handle("GET /metrics", r.metrics)
	mux.Handle("GET /img/", http.FileServer(http.Dir(cfg.StaticDir)))

	setupHealthCheck(mux)
	setupInfo(mux, r.gateway)

	return mux
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

func setupInfo(mux *http.ServeMux, svc *gateway.Service) {
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		stats := svc.GetStats()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"service":"auction-server","version":"1.0.0","connections":%d,"mounted_cards":%d}`,
			stats["total_connections"], stats["mounted_cards"])
	})
}
