package card

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TickInterval is the countdown cadence of a mounted card
const TickInterval = time.Second

// ErrAlreadyMounted is returned when Mount is called on a card that was mounted before
var ErrAlreadyMounted = errors.New("card already mounted")

// State is the runtime state owned by one card
type State struct {
	RemainingSeconds int
	CurrentBid       int64
	BidCount         int
}

// Snapshot is the display state derived from a card's State
type Snapshot struct {
	ListingID         int                  `json:"listing_id"`
	RemainingSeconds  int                  `json:"remaining_sec"`
	Countdown         string               `json:"countdown"`
	CurrentBid        int64                `json:"current_bid"`
	CurrentBidDisplay string               `json:"current_bid_display"`
	BidCount          int                  `json:"bid_count"`
	Urgent            bool                 `json:"urgent"`
	Status            models.AuctionStatus `json:"status"`
	StatusLabel       string               `json:"status_label"`
	CanBid            bool                 `json:"can_bid"`
}

// Options configures a card. Zero values fall back to the real clock and no-op metrics.
type Options struct {
	Clock   Clock
	Metrics MetricsCollector

	// OnChange receives a snapshot after every tick and accepted bid. It runs on the card's
	// timer goroutine and must not block.
	OnChange func(Snapshot)
}

// Card simulates the live auction state of one listing: a one-second countdown and a local,
// unpersisted bid action. Cards never share state.
type Card struct {
	listing  models.Listing
	clock    Clock
	metrics  MetricsCollector
	onChange func(Snapshot)

	mu    sync.Mutex
	state State

	lifeMu  sync.Mutex
	mounted bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a card initialised from the listing
func New(listing models.Listing, opts Options) *Card {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoOpMetricsCollector{}
	}

	remaining := listing.TimeLeft
	if remaining < 0 {
		remaining = 0
	}

	return &Card{
		listing:  listing,
		clock:    opts.Clock,
		metrics:  opts.Metrics,
		onChange: opts.OnChange,
		state: State{
			RemainingSeconds: remaining,
			CurrentBid:       listing.CurrentBid,
			BidCount:         listing.Bids,
		},
	}
}

// Listing returns the listing the card was created from
func (c *Card) Listing() models.Listing {
	return c.listing
}

// Tick advances the countdown by one second. It is a no-op once the countdown reached zero.
func (c *Card) Tick() {
	c.mu.Lock()
	if c.state.RemainingSeconds == 0 {
		c.mu.Unlock()
		return
	}
	c.state.RemainingSeconds--
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if snap.Status == models.AuctionStatusEnded {
		log.Debug().Int("listing_id", c.listing.ID).Msg("auction ended")
	}
	c.notify(snap)
}

// PlaceBid raises the current bid by BidIncrement and counts the bid. Once the countdown reached
// zero it changes nothing; the return value reports whether the bid was accepted.
func (c *Card) PlaceBid() bool {
	c.mu.Lock()
	if c.state.RemainingSeconds == 0 {
		c.mu.Unlock()
		c.metrics.BidPlaced(false)
		return false
	}
	c.state.CurrentBid += BidIncrement
	c.state.BidCount++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.metrics.BidPlaced(true)
	c.notify(snap)
	return true
}

// State returns a copy of the card's runtime state
func (c *Card) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the current display state
func (c *Card) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Card) snapshotLocked() Snapshot {
	s := c.state
	status := StatusFor(s.RemainingSeconds)
	return Snapshot{
		ListingID:         c.listing.ID,
		RemainingSeconds:  s.RemainingSeconds,
		Countdown:         FormatTime(s.RemainingSeconds),
		CurrentBid:        s.CurrentBid,
		CurrentBidDisplay: FormatPrice(s.CurrentBid),
		BidCount:          s.BidCount,
		Urgent:            IsUrgent(s.RemainingSeconds),
		Status:            status,
		StatusLabel:       StatusLabel(status),
		CanBid:            status == models.AuctionStatusActive,
	}
}

func (c *Card) notify(snap Snapshot) {
	if c.onChange != nil {
		c.onChange(snap)
	}
}

// Mount acquires the card's recurring timer and starts the countdown. The timer is released by
// Unmount or when ctx is cancelled, whichever comes first. A card can be mounted once.
func (c *Card) Mount(ctx context.Context) error {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.mounted {
		return ErrAlreadyMounted
	}
	c.mounted = true

	ctx, cancel := context.WithCancel(ctx)
	ticker := c.clock.NewTicker(TickInterval)
	c.metrics.TimerAcquired()

	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(ctx, ticker, c.done)

	log.Debug().
		Int("listing_id", c.listing.ID).
		Int("remaining_sec", c.State().RemainingSeconds).
		Msg("card mounted")
	return nil
}

// run owns the ticker; it is the only place the ticker is stopped
func (c *Card) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer func() {
		ticker.Stop()
		c.metrics.TimerReleased()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.Tick()
		}
	}
}

// Unmount stops the countdown and waits until the timer is released. It is safe to call more
// than once and on a card that was never mounted.
func (c *Card) Unmount() {
	c.lifeMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.lifeMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	log.Debug().Int("listing_id", c.listing.ID).Msg("card unmounted")
}
