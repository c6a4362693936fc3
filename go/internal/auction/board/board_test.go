package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/autoauction/go/internal/auction/card"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/stretchr/testify/require"
)

type timerCounter struct {
	mu                 sync.Mutex
	acquired, released int
	accepted, rejected int
}

func (m *timerCounter) TimerAcquired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acquired++
}

func (m *timerCounter) TimerReleased() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released++
}

func (m *timerCounter) BidPlaced(accepted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accepted {
		m.accepted++
	} else {
		m.rejected++
	}
}

func (m *timerCounter) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquired, m.released
}

func listings() []models.Listing {
	return []models.Listing{
		{ID: 1, CurrentBid: 45_000_000, TimeLeft: 3600, Bids: 12},
		{ID: 2, CurrentBid: 28_000_000, TimeLeft: 1800, Bids: 8},
		{ID: 3, CurrentBid: 18_500_000, TimeLeft: 0, Bids: 15},
	}
}

func TestBoard_MountUnmountReleasesEveryTimer(t *testing.T) {
	rq := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := clockwork.NewFakeClock()
	metrics := &timerCounter{}
	b := NewBoard(listings(), card.Options{Clock: clock, Metrics: metrics})

	rq.NoError(b.Mount(ctx))
	rq.NoError(clock.BlockUntilContext(ctx, 3))

	acquired, released := metrics.counts()
	rq.Equal(3, acquired)
	rq.Equal(0, released)

	b.Unmount()
	b.Unmount()

	acquired, released = metrics.counts()
	rq.Equal(3, acquired)
	rq.Equal(3, released)
}

func TestBoard_MountTwiceFails(t *testing.T) {
	rq := require.New(t)

	metrics := &timerCounter{}
	b := NewBoard(listings(), card.Options{Clock: clockwork.NewFakeClock(), Metrics: metrics})

	rq.NoError(b.Mount(context.Background()))
	rq.ErrorIs(b.Mount(context.Background()), card.ErrAlreadyMounted)
	b.Unmount()

	acquired, released := metrics.counts()
	rq.Equal(3, acquired)
	rq.Equal(3, released)
}

func TestBoard_PlaceBid(t *testing.T) {
	rq := require.New(t)

	b := NewBoard(listings(), card.Options{})

	snap, accepted, err := b.PlaceBid(1)
	rq.NoError(err)
	rq.True(accepted)
	rq.Equal(int64(45_500_000), snap.CurrentBid)
	rq.Equal(13, snap.BidCount)

	snap, accepted, err = b.PlaceBid(3)
	rq.NoError(err)
	rq.False(accepted)
	rq.Equal(int64(18_500_000), snap.CurrentBid)
	rq.Equal(15, snap.BidCount)

	_, _, err = b.PlaceBid(99)
	rq.ErrorIs(err, ErrUnknownListing)

	// Cards do not share state.
	other, err := b.Snapshot(2)
	rq.NoError(err)
	rq.Equal(int64(28_000_000), other.CurrentBid)
}

func TestBoard_Snapshots(t *testing.T) {
	rq := require.New(t)

	b := NewBoard(listings(), card.Options{})
	snaps := b.Snapshots()

	rq.Len(snaps, 3)
	rq.Equal(3, b.Len())
	for i, s := range snaps {
		rq.Equal(listings()[i].ID, s.ListingID)
	}
	rq.False(snaps[0].Urgent)
	rq.False(snaps[1].Urgent)
	rq.True(snaps[2].Urgent)

	_, err := b.Snapshot(42)
	rq.ErrorIs(err, ErrUnknownListing)
}

func TestBoard_BoardsAreIndependent(t *testing.T) {
	rq := require.New(t)

	a := NewBoard(listings(), card.Options{})
	b := NewBoard(listings(), card.Options{})

	_, _, err := a.PlaceBid(1)
	rq.NoError(err)

	snap, err := b.Snapshot(1)
	rq.NoError(err)
	rq.Equal(12, snap.BidCount)
}
