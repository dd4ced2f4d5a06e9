// Package config loads holidaze configuration from a YAML file and
// HOLIDAZE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/holidaze/internal/extraction"
	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
	"github.com/fyrsmithlabs/holidaze/internal/logging"
	"github.com/fyrsmithlabs/holidaze/internal/privacy"
	"github.com/fyrsmithlabs/holidaze/internal/store"
)

// Config holds the complete holidaze configuration.
type Config struct {
	Trip       TripConfig       `koanf:"trip"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Transcript TranscriptConfig `koanf:"transcript"`
	Privacy    privacy.Config   `koanf:"privacy"`
	Store      StoreConfig      `koanf:"store"`
	Server     ServerConfig     `koanf:"server"`
	MapData    MapDataConfig    `koanf:"mapdata"`
	Logging    logging.Config   `koanf:"logging"`
}

// TripConfig describes the itinerary being built.
type TripConfig struct {
	Title         string `koanf:"title"`
	Key           string `koanf:"key"`
	ConfirmedOnly bool   `koanf:"confirmed_only"`
}

// ExtractionConfig mirrors extraction.Config with dates as text.
type ExtractionConfig struct {
	ConfirmBefore int    `koanf:"confirm_before"`
	ConfirmAfter  int    `koanf:"confirm_after"`
	DateBefore    int    `koanf:"date_before"`
	DateAfter     int    `koanf:"date_after"`
	DefaultYear   int    `koanf:"default_year"`
	Destination   string `koanf:"destination"`
	FallbackStart string `koanf:"fallback_start"`
	FallbackEnd   string `koanf:"fallback_end"`
}

// TranscriptConfig controls transcript reading.
type TranscriptConfig struct {
	Path             string   `koanf:"path"`
	SystemIndicators []string `koanf:"system_indicators"`
	// SystemSenders are sender names left out of the participant list,
	// usually the group name.
	SystemSenders []string `koanf:"system_senders"`
}

// StoreConfig selects the itinerary store.
type StoreConfig struct {
	Backend string            `koanf:"backend"`
	Dir     string            `koanf:"dir"`
	Redis   store.RedisConfig `koanf:"redis"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       float64       `koanf:"rate_limit"`
	RateBurst       int           `koanf:"rate_burst"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	WatchDebounce   time.Duration `koanf:"watch_debounce"`
}

// MapDataConfig points at the map dataset directory.
type MapDataConfig struct {
	Dir   string `koanf:"dir"`
	Title string `koanf:"title"`
}

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Default returns the built-in configuration. Slice fields are left nil and
// filled by applyDefaults so a file can replace them wholesale.
func Default() *Config {
	eng := extraction.DefaultConfig()
	priv := privacy.DefaultConfig()
	priv.Rules = nil
	priv.AllowList = nil

	return &Config{
		Trip: TripConfig{
			Title:         "Thailand 2026",
			Key:           "thailand-2026",
			ConfirmedOnly: true,
		},
		Extraction: ExtractionConfig{
			ConfirmBefore: eng.ConfirmBefore,
			ConfirmAfter:  eng.ConfirmAfter,
			DateBefore:    eng.DateBefore,
			DateAfter:     eng.DateAfter,
			DefaultYear:   eng.DefaultYear,
			Destination:   eng.Destination,
			FallbackStart: eng.FallbackStart.String(),
			FallbackEnd:   eng.FallbackEnd.String(),
		},
		Privacy: *priv,
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     "~/.local/share/holidaze/itineraries",
			Redis: store.RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "holidaze:",
			},
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
			WatchDebounce:   2 * time.Second,
		},
		MapData: MapDataConfig{
			Dir:   "data",
			Title: "Thailand 2026",
		},
		Logging: *logging.NewDefaultConfig(),
	}
}

// Engine converts the extraction section into an extraction.Config.
func (c ExtractionConfig) Engine() (extraction.Config, error) {
	start, err := itinerary.ParseDate(c.FallbackStart)
	if err != nil {
		return extraction.Config{}, fmt.Errorf("extraction.fallback_start: %w", err)
	}
	end, err := itinerary.ParseDate(c.FallbackEnd)
	if err != nil {
		return extraction.Config{}, fmt.Errorf("extraction.fallback_end: %w", err)
	}
	eng := extraction.Config{
		ConfirmBefore: c.ConfirmBefore,
		ConfirmAfter:  c.ConfirmAfter,
		DateBefore:    c.DateBefore,
		DateAfter:     c.DateAfter,
		DefaultYear:   c.DefaultYear,
		Destination:   c.Destination,
		FallbackStart: start,
		FallbackEnd:   end,
	}
	return eng, eng.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Trip.Title == "" {
		errs = append(errs, errors.New("trip.title is required"))
	}
	if err := store.ValidateKey(c.Trip.Key); err != nil {
		errs = append(errs, fmt.Errorf("trip.key: %w", err))
	}
	if _, err := c.Extraction.Engine(); err != nil {
		errs = append(errs, err)
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Dir == "" {
			errs = append(errs, errors.New("store.dir is required for the file backend"))
		}
	case BackendRedis:
		if c.Store.Redis.URL == "" && c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.url or store.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendRedis, c.Store.Backend))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		errs = append(errs, errors.New("server.rate_limit and server.rate_burst must not be negative"))
	}

	if err := c.Privacy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("privacy: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}
