package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/autoauction/go/internal/auction/card"
)

// AuctionEvent is the envelope of every server-to-client message
type AuctionEvent struct {
	ID        string          `json:"id"`         // Event UUID
	SessionID string          `json:"session_id"` // Viewer session UUID
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// EventType represents the type of a live-view event
type EventType string

const (
	EventTypeBoardMounted EventType = "BoardMounted"
	EventTypeCardUpdated  EventType = "CardUpdated"
	EventTypeBidRejected  EventType = "BidRejected"
	EventTypeError        EventType = "Error"
)

// BoardMountedPayload carries every card of a freshly mounted board
type BoardMountedPayload struct {
	Cards []card.Snapshot `json:"cards"`
}

// BidRejectedPayload tells the viewer a bid hit an ended auction
type BidRejectedPayload struct {
	ListingID int           `json:"listing_id"`
	Reason    string        `json:"reason"`
	Card      card.Snapshot `json:"card"`
}

// ErrorPayload reports a malformed or unknown client message
type ErrorPayload struct {
	Message string `json:"message"`
}

// ReasonAuctionEnded is the BidRejected reason for bids after the countdown reached zero
const ReasonAuctionEnded = "auction_ended"

// ClientMessageType represents the type of a client-to-server message
type ClientMessageType string

const (
	ClientMessagePlaceBid ClientMessageType = "PlaceBid"
)

// ClientMessage is a command sent by the viewer
type ClientMessage struct {
	Type      ClientMessageType `json:"type"`
	ListingID int               `json:"listing_id"`
}

// NewEvent builds an event envelope around payload
func NewEvent(sessionID string, eventType EventType, timestamp time.Time, payload interface{}) (*AuctionEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &AuctionEvent{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      eventType,
		Timestamp: timestamp,
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *AuctionEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeBoardMounted:
		var payload BoardMountedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeCardUpdated:
		var payload card.Snapshot
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeBidRejected:
		var payload BidRejectedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeError:
		var payload ErrorPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil // Unknown event type
	}
}
