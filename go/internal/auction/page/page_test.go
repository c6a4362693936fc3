package page

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcdev12/autoauction/go/internal/catalog"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, yaml string) *Handler {
	t.Helper()

	var (
		repo *catalog.Repository
		err  error
	)
	if yaml == "" {
		repo, err = catalog.NewRepository()
	} else {
		repo, err = catalog.Load([]byte(yaml))
	}
	require.NoError(t, err)

	h, err := NewHandler(repo)
	require.NoError(t, err)
	return h
}

func TestBuildData(t *testing.T) {
	rq := require.New(t)

	data := newTestHandler(t, "").BuildData()

	rq.Len(data.Listings, 3)
	rq.NotNil(data.Featured)
	rq.Equal(1, data.Featured.ID)
	rq.Equal("₩500,000", data.BidIncrement)
	rq.Equal(3, data.FeePercent)
	rq.Len(data.Features, 3)
	rq.Len(data.Brands, 4)
	rq.Equal("/ws/auction", data.SocketPath)
}

func TestRender(t *testing.T) {
	rq := require.New(t)

	var sb strings.Builder
	rq.NoError(newTestHandler(t, "").Render(&sb))
	html := sb.String()

	rq.Contains(html, "한국 중고차 온라인 경매")
	rq.Contains(html, "Hyundai Genesis G90 (2022)")
	rq.Contains(html, "Kia Sportage (2021)")
	rq.Contains(html, "₩45,000,000")
	rq.Contains(html, "01:00:00")
	rq.Contains(html, "02:00:00")
	rq.Contains(html, "15,000 km")
	rq.Contains(html, "VIN: 123456")
	rq.Contains(html, "경매 진행중")
	rq.Contains(html, "입찰 수수료: 3%")
	rq.Contains(html, `<option value="genesis">제네시스</option>`)
	rq.NotContains(html, " disabled>")
}

func TestRender_EndedListingDisablesBid(t *testing.T) {
	rq := require.New(t)

	h := newTestHandler(t, "listings:\n  - id: 5\n    brand: Kia\n    model: Ray\n    year: 2019\n    time_left_sec: 0\n")

	var sb strings.Builder
	rq.NoError(h.Render(&sb))
	html := sb.String()

	rq.Contains(html, "경매 종료")
	rq.Contains(html, " disabled>")
	rq.Contains(html, `class="card urgent"`)
}

func TestServeHTTP(t *testing.T) {
	rq := require.New(t)

	mux := http.NewServeMux()
	newTestHandler(t, "").RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	rq.NoError(err)
	rq.Contains(string(body), "실시간 입찰 현황")

	notFound, err := http.Get(srv.URL + "/nope")
	rq.NoError(err)
	defer notFound.Body.Close()
	rq.Equal(http.StatusNotFound, notFound.StatusCode)
}
