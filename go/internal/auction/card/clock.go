package card

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) clockwork.Ticker
}

// MetricsCollector receives card lifecycle and bid events
type MetricsCollector interface {
	TimerAcquired()
	TimerReleased()
	BidPlaced(accepted bool)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) TimerAcquired() {}
func (NoOpMetricsCollector) TimerReleased() {}
func (NoOpMetricsCollector) BidPlaced(bool) {}
