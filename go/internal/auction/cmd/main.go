package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/autoauction/go/internal/auction/gateway"
	"github.com/mcdev12/autoauction/go/internal/auction/metrics"
	"github.com/mcdev12/autoauction/go/internal/auction/page"
	"github.com/mcdev12/autoauction/go/internal/catalog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	repo, err := openCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	auctionMetrics := metrics.NewPrometheusMetrics()

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.ConnectionConfig = cfg.Connection
	gatewayConfig.Metrics = auctionMetrics
	gatewayService := gateway.NewService(gatewayConfig, repo)

	pageHandler, err := page.NewHandler(repo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create page handler")
	}

	server := setupServer(cfg, routes{
		gateway: gatewayService,
		page:    pageHandler,
		metrics: auctionMetrics.Handler(),
	})

	log.Info().
		Str("port", cfg.Port).
		Int("listings", len(repo.List())).
		Str("static_dir", cfg.StaticDir).
		Msg("starting auction server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gatewayService.Start(gctx)
	})

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("auction server stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("auction server shutdown complete")
}

func openCatalog(path string) (*catalog.Repository, error) {
	if path == "" {
		return catalog.NewRepository()
	}
	return catalog.NewRepositoryFromFile(path)
}
