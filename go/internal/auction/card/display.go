package card

import (
	"fmt"

	"github.com/mcdev12/autoauction/go/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// BidIncrement is added to the current bid by every accepted bid, in KRW.
	BidIncrement int64 = 500_000

	// UrgencyThreshold is the remaining time, in seconds, below which a card is "ending soon".
	UrgencyThreshold = 1800
)

// IsUrgent reports whether a card with the given remaining seconds is ending soon
func IsUrgent(remainingSeconds int) bool {
	return remainingSeconds < UrgencyThreshold
}

// StatusFor returns the auction status for the given remaining seconds
func StatusFor(remainingSeconds int) models.AuctionStatus {
	if remainingSeconds > 0 {
		return models.AuctionStatusActive
	}
	return models.AuctionStatusEnded
}

// StatusLabel returns the Korean label shown next to the bid count
func StatusLabel(status models.AuctionStatus) string {
	if status == models.AuctionStatusActive {
		return "경매 진행중"
	}
	return "경매 종료"
}

// FormatPrice formats a KRW amount the way ko-KR currency formatting does, e.g. "₩45,000,000".
func FormatPrice(amount int64) string {
	p := message.NewPrinter(language.Korean)
	if amount < 0 {
		return p.Sprintf("-₩%d", -amount)
	}
	return p.Sprintf("₩%d", amount)
}

// FormatMileage formats a distance in km with digit grouping, e.g. "15,000 km".
func FormatMileage(km int) string {
	return message.NewPrinter(language.Korean).Sprintf("%d km", km)
}

// FormatTime formats seconds as HH:MM:SS. Hours are not wrapped at 24.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
