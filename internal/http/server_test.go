package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/store"
)

func sampleItinerary() *itinerary.Itinerary {
	return &itinerary.Itinerary{
		Title:       "Thailand 2026",
		Destination: "Thailand",
		StartDate:   itinerary.MustParseDate("2026-03-14").Ptr(),
		EndDate:     itinerary.MustParseDate("2026-03-21").Ptr(),
		Items: []itinerary.TravelItem{
			{
				ID:        "item-1",
				Category:  itinerary.CategoryFlight,
				Status:    itinerary.StatusConfirmed,
				Title:     "Etihad LHR → BKK",
				StartDate: itinerary.MustParseDate("2026-03-14").Ptr(),
			},
			{
				ID:        "item-2",
				Category:  itinerary.CategoryHotel,
				Status:    itinerary.StatusConfirmed,
				Title:     "Sea Breeze Resort",
				StartDate: itinerary.MustParseDate("2026-03-18").Ptr(),
				EndDate:   itinerary.MustParseDate("2026-03-21").Ptr(),
			},
			{ID: "item-3", Category: itinerary.CategoryTransfer, Status: itinerary.StatusTentative, Title: "Ferry"},
		},
	}
}

func writeMapData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"locations.json": `{"locations": {"lipe": {"name": "Koh Lipe", "lat": 6.49, "lng": 99.3, "type": "island"}}, "route": []}`,
		"hotels.json":    `{"hotels": [{"id": "h1", "name": "Castaway", "location": "lipe", "lat": 6.48, "lng": 99.31, "nights": 3}]}`,
		"pois.json":      `{"pois": []}`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func setupTestServer(t *testing.T, mutate ...func(*Config)) (*Server, *observer.ObservedLogs) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), "thailand-2026", sampleItinerary()))

	cfg := &Config{
		Host:        "localhost",
		Port:        8080,
		DefaultKey:  "thailand-2026",
		MapDir:      writeMapData(t),
		MapTitle:    "Thailand Map",
		CORSOrigins: []string{"*"},
	}
	for _, m := range mutate {
		m(cfg)
	}

	core, logs := observer.New(zap.InfoLevel)
	server, err := NewServer(st, zap.New(core), cfg)
	require.NoError(t, err)
	return server, logs
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	t.Run("uses defaults when config is nil", func(t *testing.T) {
		server, err := NewServer(st, zap.NewNop(), nil)
		require.NoError(t, err)
		assert.Equal(t, 8080, server.config.Port)
		assert.Equal(t, "thailand-2026", server.config.DefaultKey)
	})

	t.Run("returns error when logger is nil", func(t *testing.T) {
		_, err := NewServer(st, nil, nil)
		assert.ErrorContains(t, err, "logger is required")
	})

	t.Run("returns error when store is nil", func(t *testing.T) {
		_, err := NewServer(nil, zap.NewNop(), nil)
		assert.ErrorContains(t, err, "store cannot be nil")
	})
}

func TestHandleHealth(t *testing.T) {
	server, logs := setupTestServer(t)

	rec := get(t, server, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
}

func TestHandleIndex(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := get(t, server, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Contains(t, rec.Body.String(), "Sea Breeze Resort")

	t.Run("missing default itinerary is 404", func(t *testing.T) {
		server, _ := setupTestServer(t, func(c *Config) { c.DefaultKey = "other-trip" })
		assert.Equal(t, http.StatusNotFound, get(t, server, "/").Code)
	})
}

func TestHandleMap(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := get(t, server, "/map")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Thailand Map</title>")
	assert.Contains(t, rec.Body.String(), `"hotel":"Castaway"`)

	t.Run("without dataset", func(t *testing.T) {
		server, _ := setupTestServer(t, func(c *Config) { c.MapDir = "" })
		assert.Equal(t, http.StatusNotFound, get(t, server, "/map").Code)
		assert.Equal(t, http.StatusNotFound, get(t, server, "/api/locations").Code)
	})

	t.Run("broken dataset", func(t *testing.T) {
		server, _ := setupTestServer(t, func(c *Config) { c.MapDir = t.TempDir() })
		assert.Equal(t, http.StatusInternalServerError, get(t, server, "/map").Code)
	})
}

func TestHandleLocations(t *testing.T) {
	server, _ := setupTestServer(t)

	rec := get(t, server, "/api/locations")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Locations map[string]struct {
			Name string `json:"name"`
		} `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Koh Lipe", body.Locations["lipe"].Name)
}

func TestItineraryAPI(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("list", func(t *testing.T) {
		rec := get(t, server, "/api/v1/itineraries")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp ListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, []string{"thailand-2026"}, resp.Keys)
	})

	t.Run("get", func(t *testing.T) {
		rec := get(t, server, "/api/v1/itineraries/thailand-2026")
		require.Equal(t, http.StatusOK, rec.Code)
		var it itinerary.Itinerary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &it))
		assert.Equal(t, "Thailand 2026", it.Title)
		assert.Len(t, it.Items, 3)
	})

	t.Run("by date", func(t *testing.T) {
		rec := get(t, server, "/api/v1/itineraries/thailand-2026/by-date")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Dates  string `json:"dates"`
			Groups []struct {
				Date  *string                `json:"date"`
				Items []itinerary.TravelItem `json:"items"`
			} `json:"groups"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Groups, 3)
		assert.Equal(t, "2026-03-14", *resp.Groups[0].Date)
		assert.Nil(t, resp.Groups[2].Date)
		assert.Equal(t, "Ferry", resp.Groups[2].Items[0].Title)
	})

	t.Run("by category", func(t *testing.T) {
		rec := get(t, server, "/api/v1/itineraries/thailand-2026/by-category")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"category":"flight"`)
	})

	t.Run("unknown key", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, server, "/api/v1/itineraries/nope").Code)
	})

	t.Run("invalid key", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, server, "/api/v1/itineraries/_bad").Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	get(t, server, "/api/v1/itineraries/thailand-2026")

	rec := get(t, server, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "holidaze_http_requests_total")
	assert.True(t, strings.Contains(body, `endpoint="/api/v1/itineraries/:key"`), "route template used as label")
}

func TestRateLimit(t *testing.T) {
	server, _ := setupTestServer(t, func(c *Config) {
		c.RateLimit = 1
		c.RateBurst = 2
	})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, get(t, server, "/health").Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestCORS(t *testing.T) {
	server, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://example.com")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
