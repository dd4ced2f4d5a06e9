// Package http serves rendered itineraries, the trip map and a small JSON
// API over echo.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/render"
	"github.com/fyrsmithlabs/holidaze/internal/store"
	"github.com/fyrsmithlabs/holidaze/internal/tripmap"
)

// Server provides the holidaze web front end.
type Server struct {
	echo    *echo.Echo
	store   store.Store
	html    *render.HTMLRenderer
	maps    *tripmap.Renderer
	metrics *HTTPMetrics
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// DefaultKey is the itinerary rendered at "/".
	DefaultKey string

	// MapDir holds the map dataset. Empty disables /map and /api/locations.
	MapDir   string
	MapTitle string

	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
}

// NewServer creates a new HTTP server.
func NewServer(st store.Store, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:       "127.0.0.1",
			Port:       8080,
			DefaultKey: "thailand-2026",
		}
	}

	html, err := render.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	maps, err := tripmap.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		store:   st,
		html:    html,
		maps:    maps,
		metrics: NewHTTPMetrics(),
		logger:  logger,
		config:  cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	e.Use(s.metrics.Middleware())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodHead},
		}))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
		}
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			},
		)))
	}

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/map", s.handleMap)
	s.echo.GET("/api/locations", s.handleLocations)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/itineraries", s.handleList)
	v1.GET("/itineraries/:key", s.handleGet)
	v1.GET("/itineraries/:key/by-date", s.handleByDate)
	v1.GET("/itineraries/:key/by-category", s.handleByCategory)
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// loadItinerary maps store errors onto HTTP errors.
func (s *Server) loadItinerary(c echo.Context, key string) (*itinerary.Itinerary, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := s.store.Load(c.Request().Context(), key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("itinerary %q not found", key))
	case err != nil:
		s.logger.Error("loading itinerary", zap.String("key", key), zap.Error(err))
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load itinerary")
	}
	return it, nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleIndex renders the default itinerary page.
func (s *Server) handleIndex(c echo.Context) error {
	it, err := s.loadItinerary(c, s.config.DefaultKey)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := s.html.Render(&buf, it); err != nil {
		s.logger.Error("rendering itinerary", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render itinerary")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// handleMap renders the trip map from the dataset on disk, so edits to the
// data files show up on reload.
func (s *Server) handleMap(c echo.Context) error {
	if s.config.MapDir == "" {
		return echo.NewHTTPError(http.StatusNotFound, "map dataset not configured")
	}
	ds, err := tripmap.Load(s.config.MapDir)
	if err != nil {
		s.logger.Error("loading map dataset", zap.String("dir", s.config.MapDir), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load map dataset")
	}
	var buf bytes.Buffer
	if err := s.maps.Render(&buf, tripmap.Build(s.config.MapTitle, ds)); err != nil {
		s.logger.Error("rendering map", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render map")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// handleLocations returns the raw locations dataset.
func (s *Server) handleLocations(c echo.Context) error {
	if s.config.MapDir == "" {
		return echo.NewHTTPError(http.StatusNotFound, "map dataset not configured")
	}
	locs, err := tripmap.LoadLocations(s.config.MapDir)
	if err != nil {
		s.logger.Error("loading locations", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load locations")
	}
	return c.JSON(http.StatusOK, locs)
}

func (s *Server) handleList(c echo.Context) error {
	keys, err := s.store.List(c.Request().Context())
	if err != nil {
		s.logger.Error("listing itineraries", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list itineraries")
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, ListResponse{Keys: keys})
}

func (s *Server) handleGet(c echo.Context) error {
	it, err := s.loadItinerary(c, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, it)
}

func (s *Server) handleByDate(c echo.Context) error {
	it, err := s.loadItinerary(c, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GroupsResponse[itinerary.DateGroup]{
		Title:  it.Title,
		Dates:  it.FormattedDates(),
		Groups: it.ItemsByDate(),
	})
}

func (s *Server) handleByCategory(c echo.Context) error {
	it, err := s.loadItinerary(c, c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GroupsResponse[itinerary.CategoryGroup]{
		Title:  it.Title,
		Dates:  it.FormattedDates(),
		Groups: it.ItemsByCategory(),
	})
}
