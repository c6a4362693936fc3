package models

import "fmt"

// AuctionStatus defines the status of a listing's auction.
type AuctionStatus string

const (
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusEnded  AuctionStatus = "ended"
)

// Listing is one auction-eligible car. It is read-only once a card is mounted for it.
type Listing struct {
	ID         int    `json:"id" yaml:"id"`
	Brand      string `json:"brand" yaml:"brand"`
	Model      string `json:"model" yaml:"model"`
	Year       int    `json:"year" yaml:"year"`
	Mileage    int    `json:"mileage" yaml:"mileage"`         // km
	CurrentBid int64  `json:"current_bid" yaml:"current_bid"` // KRW
	TimeLeft   int    `json:"time_left_sec" yaml:"time_left_sec"`
	Bids       int    `json:"bids" yaml:"bids"`
	Image      string `json:"image" yaml:"image"`
	VIN        string `json:"vin" yaml:"vin"`
}

// Title returns the card heading, e.g. "Hyundai Genesis G90 (2022)".
func (l Listing) Title() string {
	return fmt.Sprintf("%s %s (%d)", l.Brand, l.Model, l.Year)
}

// VINSuffix returns the last six characters of the VIN.
func (l Listing) VINSuffix() string {
	if len(l.VIN) <= 6 {
		return l.VIN
	}
	return l.VIN[len(l.VIN)-6:]
}

// Option is a value/label pair for the search form selects.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}
