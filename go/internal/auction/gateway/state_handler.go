package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcdev12/autoauction/go/internal/auction/card"
	"github.com/mcdev12/autoauction/go/internal/catalog"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// ListingProvider is the read side of the catalog used by the REST routes
type ListingProvider interface {
	ListingSource
	Get(id int) (models.Listing, error)
	Search(f catalog.Filter) []models.Listing
}

// ListingView is a listing together with the display state a freshly mounted card would show
type ListingView struct {
	models.Listing
	Title          string        `json:"title"`
	VINSuffix      string        `json:"vin_suffix"`
	MileageDisplay string        `json:"mileage_display"`
	Card           card.Snapshot `json:"card"`
}

// NewListingView builds the view of an unmounted card for l
func NewListingView(l models.Listing) ListingView {
	return ListingView{
		Listing:        l,
		Title:          l.Title(),
		VINSuffix:      l.VINSuffix(),
		MileageDisplay: card.FormatMileage(l.Mileage),
		Card:           card.New(l, card.Options{}).Snapshot(),
	}
}

// StateHandler handles HTTP requests for listing state
type StateHandler struct {
	listings ListingProvider
}

// NewStateHandler creates a new state handler
func NewStateHandler(listings ListingProvider) *StateHandler {
	return &StateHandler{
		listings: listings,
	}
}

// HandleListListings handles GET /api/listings?brand=&q=&year=
func (h *StateHandler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.ParseFilter(q.Get("brand"), q.Get("q"), q.Get("year"))

	views := make([]ListingView, 0)
	for _, l := range h.listings.Search(filter) {
		views = append(views, NewListingView(l))
	}

	writeJSON(w, views)
}

// HandleGetListing handles GET /api/listings/{id}
func (h *StateHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid listing ID format", http.StatusBadRequest)
		return
	}

	l, err := h.listings.Get(id)
	if errors.Is(err, catalog.ErrListingNotFound) {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Int("listing_id", id).Msg("failed to get listing")
		http.Error(w, "Failed to get listing", http.StatusInternalServerError)
		return
	}

	writeJSON(w, NewListingView(l))
}

// RegisterStateRoutes registers listing HTTP routes
func (h *StateHandler) RegisterStateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/listings", h.HandleListListings)
	mux.HandleFunc("GET /api/listings/{id}", h.HandleGetListing)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
