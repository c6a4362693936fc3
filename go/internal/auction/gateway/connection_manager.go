package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/autoauction/go/internal/auction/board"
	"github.com/mcdev12/autoauction/go/internal/auction/card"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ListingSource supplies the listings a new board is mounted with
type ListingSource interface {
	List() []models.Listing
}

// ConnectionMetrics tracks open live-view connections
type ConnectionMetrics interface {
	card.MetricsCollector
	ConnectionOpened()
	ConnectionClosed()
}

// NoOpConnectionMetrics is a no-op implementation for when metrics aren't needed
type NoOpConnectionMetrics struct {
	card.NoOpMetricsCollector
}

func (NoOpConnectionMetrics) ConnectionOpened() {}
func (NoOpConnectionMetrics) ConnectionClosed() {}

// ConnectionManager manages live-view WebSocket connections. Every connection owns one board.
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	// Upgrader for WebSocket connections
	upgrader websocket.Upgrader

	config   ConnectionConfig
	listings ListingSource
	clock    clockwork.Clock
	metrics  ConnectionMetrics

	// Boards are mounted under baseCtx so shutdown releases every card timer
	baseCtx context.Context
}

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager
	Board   *board.Board

	// Connection metadata
	ConnectedAt time.Time
	LastPing    time.Time

	sendMu sync.Mutex
	closed bool
}

// ConnectionConfig holds configuration for WebSocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024, // 1KB max message size
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewConnectionManager creates a new WebSocket connection manager
func NewConnectionManager(config ConnectionConfig, listings ListingSource, clock clockwork.Clock, metrics ConnectionMetrics) *ConnectionManager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = NoOpConnectionMetrics{}
	}
	if config.SendBufferSize <= 0 {
		config.SendBufferSize = DefaultConnectionConfig().SendBufferSize
	}

	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:   config,
		listings: listings,
		clock:    clock,
		metrics:  metrics,
		baseCtx:  context.Background(),
	}
}

// Start binds new boards to ctx and blocks until it is cancelled, then closes every connection
func (cm *ConnectionManager) Start(ctx context.Context) {
	cm.mu.Lock()
	cm.baseCtx = ctx
	cm.mu.Unlock()

	log.Info().Msg("connection manager started")
	<-ctx.Done()
	log.Info().Msg("connection manager shutting down")

	cm.mu.RLock()
	var open []*Connection
	for conn := range cm.connections {
		open = append(open, conn)
	}
	cm.mu.RUnlock()

	for _, conn := range open {
		cm.unregisterConnection(conn)
		conn.Conn.Close()
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and mounts a board for it
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, cm.config.SendBufferSize),
		Manager:     cm,
		ConnectedAt: cm.clock.Now(),
		LastPing:    cm.clock.Now(),
	}
	connection.Board = board.NewBoard(cm.listings.List(), card.Options{
		Clock:    cm.clock,
		Metrics:  cm.metrics,
		OnChange: connection.cardChanged,
	})

	// The initial state goes out before the first tick can.
	connection.sendEvent(EventTypeBoardMounted, BoardMountedPayload{Cards: connection.Board.Snapshots()})

	cm.mu.RLock()
	ctx := cm.baseCtx
	cm.mu.RUnlock()

	if err := connection.Board.Mount(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to mount board: %w", err)
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("session_id", connection.ID).
		Int("cards", connection.Board.Len()).
		Msg("WebSocket connection established")

	return nil
}

// registerConnection adds a connection to the manager
func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	cm.connections[conn] = true
	total := len(cm.connections)
	cm.mu.Unlock()

	cm.metrics.ConnectionOpened()

	log.Debug().
		Str("session_id", conn.ID).
		Int("total_connections", total).
		Msg("connection registered")
}

// unregisterConnection removes a connection, unmounts its board and closes its send channel.
// Only the first call for a connection has an effect.
func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	if _, exists := cm.connections[conn]; !exists {
		cm.mu.Unlock()
		return
	}
	delete(cm.connections, conn)
	cm.mu.Unlock()

	// Card goroutines must be gone before Send is closed.
	conn.Board.Unmount()
	conn.closeSend()
	cm.metrics.ConnectionClosed()

	log.Info().
		Str("session_id", conn.ID).
		Dur("connected_for", cm.clock.Since(conn.ConnectedAt)).
		Msg("connection unregistered")
}

// GetConnectionStats returns statistics about active connections
func (cm *ConnectionManager) GetConnectionStats() map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	mountedCards := 0
	for conn := range cm.connections {
		mountedCards += conn.Board.Len()
	}

	return map[string]interface{}{
		"total_connections": len(cm.connections),
		"mounted_cards":     mountedCards,
	}
}

// cardChanged runs on a card's timer goroutine; it never blocks
func (c *Connection) cardChanged(snap card.Snapshot) {
	c.sendEvent(EventTypeCardUpdated, snap)
}

func (c *Connection) sendEvent(eventType EventType, payload interface{}) {
	event, err := NewEvent(c.ID, eventType, c.Manager.clock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("session_id", c.ID).Msg("failed to build event")
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("session_id", c.ID).Msg("failed to marshal event")
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.Send <- data:
	default:
		// Connection is slow/dead. Closing the socket makes readPump unregister it; unregistering
		// here would wait on the card goroutine we may be running on.
		log.Warn().
			Str("session_id", c.ID).
			Str("event_type", string(eventType)).
			Msg("connection send buffer full, closing connection")
		c.Conn.Close()
	}
}

func (c *Connection) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregisterConnection(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				// Channel was closed
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("session_id", c.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("session_id", c.ID).
					Msg("failed to send ping")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("session_id", c.ID).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// handleClientMessage processes messages received from the viewer
func (c *Connection) handleClientMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("session_id", c.ID).Msg("malformed client message")
		c.sendEvent(EventTypeError, ErrorPayload{Message: "malformed message"})
		return
	}

	switch msg.Type {
	case ClientMessagePlaceBid:
		// Accepted bids reach the viewer through the card's OnChange.
		snap, accepted, err := c.Board.PlaceBid(msg.ListingID)
		if errors.Is(err, board.ErrUnknownListing) {
			c.sendEvent(EventTypeError, ErrorPayload{Message: fmt.Sprintf("unknown listing %d", msg.ListingID)})
			return
		}
		if !accepted {
			c.sendEvent(EventTypeBidRejected, BidRejectedPayload{
				ListingID: msg.ListingID,
				Reason:    ReasonAuctionEnded,
				Card:      snap,
			})
			return
		}
		log.Debug().
			Str("session_id", c.ID).
			Int("listing_id", msg.ListingID).
			Int64("current_bid", snap.CurrentBid).
			Msg("bid placed")

	default:
		c.sendEvent(EventTypeError, ErrorPayload{Message: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}
