package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRepository_EmbeddedCatalog(t *testing.T) {
	rq := require.New(t)

	repo, err := NewRepository()
	rq.NoError(err)

	listings := repo.List()
	rq.Len(listings, 3)
	rq.Equal(1, listings[0].ID)
	rq.Equal("Genesis G90", listings[0].Model)
	rq.Equal(int64(45000000), listings[0].CurrentBid)
	rq.Equal(3600, listings[0].TimeLeft)
	rq.Equal(12, listings[0].Bids)

	featured, ok := repo.Featured()
	rq.True(ok)
	rq.Equal(1, featured.ID)

	rq.Len(repo.Brands(), 4)
	rq.Len(repo.Years(), 4)
}

func TestRepository_Get(t *testing.T) {
	rq := require.New(t)

	repo, err := NewRepository()
	rq.NoError(err)

	l, err := repo.Get(2)
	rq.NoError(err)
	rq.Equal("Sportage", l.Model)

	_, err = repo.Get(42)
	rq.ErrorIs(err, ErrListingNotFound)
}

func TestRepository_Search(t *testing.T) {
	repo, err := NewRepository()
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{name: "empty filter", filter: Filter{}, want: []int{1, 2, 3}},
		{name: "brand", filter: Filter{Brand: "hyundai"}, want: []int{1, 3}},
		{name: "brand via model prefix", filter: Filter{Brand: "genesis"}, want: []int{1}},
		{name: "query is case insensitive", filter: Filter{Query: "SPORT"}, want: []int{2}},
		{name: "year", filter: Filter{Year: 2020}, want: []int{3}},
		{name: "no match", filter: Filter{Brand: "ssangyong"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for _, l := range repo.Search(tt.filter) {
				got = append(got, l.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	rq := require.New(t)

	rq.Equal(Filter{Brand: "kia", Query: "x", Year: 2021}, ParseFilter("kia", "x", "2021"))
	rq.Equal(Filter{}, ParseFilter("", "", "not-a-year"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: "listings: ["},
		{name: "zero id", data: "listings:\n  - id: 0\n"},
		{name: "negative time", data: "listings:\n  - id: 1\n    time_left_sec: -1\n"},
		{name: "negative bids", data: "listings:\n  - id: 1\n    bids: -3\n"},
		{name: "duplicate id", data: "listings:\n  - id: 1\n  - id: 1\n"},
		{name: "unknown featured", data: "featured_id: 9\nlistings:\n  - id: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestLoad_DefaultsFeaturedToFirst(t *testing.T) {
	rq := require.New(t)

	repo, err := Load([]byte("listings:\n  - id: 7\n    time_left_sec: 10\n  - id: 8\n"))
	rq.NoError(err)

	featured, ok := repo.Featured()
	rq.True(ok)
	rq.Equal(7, featured.ID)
}
