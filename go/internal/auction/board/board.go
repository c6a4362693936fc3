package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdev12/autoauction/go/internal/auction/card"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ErrUnknownListing is returned when a bid targets a listing that is not on the board
var ErrUnknownListing = errors.New("unknown listing")

// Board is one viewer's mounted page: a card per listing, each with its own timer
type Board struct {
	cards []*card.Card
	byID  map[int]*card.Card
}

// NewBoard creates an unmounted board. opts is shared by every card on the board.
func NewBoard(listings []models.Listing, opts card.Options) *Board {
	b := &Board{
		cards: make([]*card.Card, 0, len(listings)),
		byID:  make(map[int]*card.Card, len(listings)),
	}
	for _, l := range listings {
		c := card.New(l, opts)
		b.cards = append(b.cards, c)
		b.byID[l.ID] = c
	}
	return b
}

// Mount starts every card's countdown. If any card fails to mount, the cards mounted so far
// are unmounted again.
func (b *Board) Mount(ctx context.Context) error {
	for i, c := range b.cards {
		if err := c.Mount(ctx); err != nil {
			for _, mounted := range b.cards[:i] {
				mounted.Unmount()
			}
			return fmt.Errorf("failed to mount card %d: %w", c.Listing().ID, err)
		}
	}

	log.Debug().Int("cards", len(b.cards)).Msg("board mounted")
	return nil
}

// Unmount releases every card's timer. Safe to call more than once.
func (b *Board) Unmount() {
	for _, c := range b.cards {
		c.Unmount()
	}
}

// PlaceBid places a bid on one card. A bid on an ended auction is not an error; the returned
// bool reports whether the bid was accepted.
func (b *Board) PlaceBid(listingID int) (card.Snapshot, bool, error) {
	c, ok := b.byID[listingID]
	if !ok {
		return card.Snapshot{}, false, fmt.Errorf("listing %d: %w", listingID, ErrUnknownListing)
	}
	accepted := c.PlaceBid()
	return c.Snapshot(), accepted, nil
}

// Snapshot returns the display state of one card
func (b *Board) Snapshot(listingID int) (card.Snapshot, error) {
	c, ok := b.byID[listingID]
	if !ok {
		return card.Snapshot{}, fmt.Errorf("listing %d: %w", listingID, ErrUnknownListing)
	}
	return c.Snapshot(), nil
}

// Snapshots returns the display state of every card in listing order
func (b *Board) Snapshots() []card.Snapshot {
	out := make([]card.Snapshot, 0, len(b.cards))
	for _, c := range b.cards {
		out = append(out, c.Snapshot())
	}
	return out
}

// Len returns the number of cards on the board
func (b *Board) Len() int {
	return len(b.cards)
}
