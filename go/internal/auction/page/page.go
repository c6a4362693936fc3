package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/mcdev12/autoauction/go/internal/auction/card"
	"github.com/mcdev12/autoauction/go/internal/auction/gateway"
	"github.com/mcdev12/autoauction/go/internal/models"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// BidFeePercent is the buyer's fee quoted in the live bidding showcase
const BidFeePercent = 3

// Catalog is what the page needs from the listing catalog
type Catalog interface {
	List() []models.Listing
	Featured() (models.Listing, bool)
	Brands() []models.Option
	Years() []models.Option
}

// Feature is one entry of the features section
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// Data is the template model of the index page
type Data struct {
	Listings     []gateway.ListingView
	Featured     *gateway.ListingView
	Brands       []models.Option
	Years        []models.Option
	Features     []Feature
	BidIncrement string
	FeePercent   int
	SocketPath   string
}

var features = []Feature{
	{Icon: "Shield", Title: "안전한 거래", Description: "검증된 차량과 투명한 거래 시스템으로 안전한 구매를 보장합니다."},
	{Icon: "Clock", Title: "실시간 경매", Description: "실시간으로 진행되는 경매에서 공정한 가격으로 차량을 구매하세요."},
	{Icon: "FileSearch", Title: "상세한 정보", Description: "VIN 검증, 차량 이력, 상세 사진 등 완전한 차량 정보를 제공합니다."},
}

// Handler renders the auction landing page
type Handler struct {
	catalog Catalog
	tmpl    *template.Template
}

// NewHandler parses the embedded templates
func NewHandler(catalog Catalog) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Handler{catalog: catalog, tmpl: tmpl}, nil
}

// BuildData assembles the template model from the catalog
func (h *Handler) BuildData() Data {
	data := Data{
		Brands:       h.catalog.Brands(),
		Years:        h.catalog.Years(),
		Features:     features,
		BidIncrement: card.FormatPrice(card.BidIncrement),
		FeePercent:   BidFeePercent,
		SocketPath:   "/ws/auction",
	}
	for _, l := range h.catalog.List() {
		data.Listings = append(data.Listings, gateway.NewListingView(l))
	}
	if l, ok := h.catalog.Featured(); ok {
		view := gateway.NewListingView(l)
		data.Featured = &view
	}
	return data
}

// Render writes the page to w
func (h *Handler) Render(w io.Writer) error {
	return h.tmpl.ExecuteTemplate(w, "index.html", h.BuildData())
}

// ServeHTTP handles GET /
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Render(&buf); err != nil {
		log.Error().Err(err).Msg("failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Msg("failed to write page")
	}
}

// RegisterRoutes registers the page route
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", h)
}
