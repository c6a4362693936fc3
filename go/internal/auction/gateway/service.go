package gateway

import (
	"context"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Service is the live auction gateway: WebSocket boards plus the listing REST routes
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig

	// Clock drives every card timer; nil means the real clock
	Clock   clockwork.Clock
	Metrics ConnectionMetrics
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new gateway service
func NewService(config Config, listings ListingProvider) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig, listings, config.Clock, config.Metrics)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		stateHandler:      NewStateHandler(listings),
	}
}

// Start runs the gateway until ctx is cancelled. Every open board is unmounted on the way out.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting auction gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("auction gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket and REST routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	log.Info().Msg("auction gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "auction_gateway"
	stats["status"] = "running"
	return stats
}
