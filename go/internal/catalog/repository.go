package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mcdev12/autoauction/go/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed listings.yaml
var defaultCatalog []byte

// ErrListingNotFound is returned when no listing has the requested ID
var ErrListingNotFound = errors.New("listing not found")

// Catalog is the on-disk shape of the mock data
type Catalog struct {
	Listings   []models.Listing `yaml:"listings"`
	FeaturedID int              `yaml:"featured_id"`
	Brands     []models.Option  `yaml:"brands"`
	Years      []models.Option  `yaml:"years"`
}

// Filter narrows Search results. Empty fields match everything.
type Filter struct {
	Brand string
	Query string
	Year  int
}

// Repository serves listings from an in-memory catalog
type Repository struct {
	catalog Catalog
	byID    map[int]models.Listing
}

// NewRepository creates a repository over the embedded mock catalog
func NewRepository() (*Repository, error) {
	return Load(defaultCatalog)
}

// NewRepositoryFromFile creates a repository from a YAML catalog file
func NewRepositoryFromFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML catalog
func Load(data []byte) (*Repository, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	byID := make(map[int]models.Listing, len(c.Listings))
	for _, l := range c.Listings {
		if err := validate(l); err != nil {
			return nil, fmt.Errorf("invalid listing %d: %w", l.ID, err)
		}
		if _, dup := byID[l.ID]; dup {
			return nil, fmt.Errorf("invalid listing %d: duplicate id", l.ID)
		}
		byID[l.ID] = l
	}

	if c.FeaturedID == 0 && len(c.Listings) > 0 {
		c.FeaturedID = c.Listings[0].ID
	}
	if _, ok := byID[c.FeaturedID]; !ok && len(c.Listings) > 0 {
		return nil, fmt.Errorf("featured listing %d: %w", c.FeaturedID, ErrListingNotFound)
	}

	return &Repository{catalog: c, byID: byID}, nil
}

func validate(l models.Listing) error {
	switch {
	case l.ID <= 0:
		return errors.New("id must be positive")
	case l.TimeLeft < 0:
		return errors.New("time left must not be negative")
	case l.Bids < 0:
		return errors.New("bid count must not be negative")
	case l.CurrentBid < 0:
		return errors.New("current bid must not be negative")
	}
	return nil
}

// List returns all listings in catalog order
func (r *Repository) List() []models.Listing {
	out := make([]models.Listing, len(r.catalog.Listings))
	copy(out, r.catalog.Listings)
	return out
}

// Get returns a single listing by ID
func (r *Repository) Get(id int) (models.Listing, error) {
	l, ok := r.byID[id]
	if !ok {
		return models.Listing{}, fmt.Errorf("listing %d: %w", id, ErrListingNotFound)
	}
	return l, nil
}

// Featured returns the listing shown in the live bidding showcase
func (r *Repository) Featured() (models.Listing, bool) {
	l, ok := r.byID[r.catalog.FeaturedID]
	return l, ok
}

// Brands returns the brand options of the search form
func (r *Repository) Brands() []models.Option {
	return r.catalog.Brands
}

// Years returns the model-year options of the search form
func (r *Repository) Years() []models.Option {
	return r.catalog.Years
}

// Search returns the listings matching f, in catalog order
func (r *Repository) Search(f Filter) []models.Listing {
	brand := strings.ToLower(strings.TrimSpace(f.Brand))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []models.Listing
	for _, l := range r.catalog.Listings {
		// Genesis is sold under Hyundai, so a brand also matches the model prefix.
		if brand != "" && strings.ToLower(l.Brand) != brand &&
			!strings.HasPrefix(strings.ToLower(l.Model), brand) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(l.Model), query) {
			continue
		}
		if f.Year != 0 && l.Year != f.Year {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ParseFilter builds a Filter from raw query parameters. An unparsable year is ignored.
func ParseFilter(brand, query, year string) Filter {
	f := Filter{Brand: brand, Query: query}
	if y, err := strconv.Atoi(year); err == nil {
		f.Year = y
	}
	return f
}
