package extraction

import (
	"fmt"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// Config holds the tunables of the extraction engine.
//
// Windows are counted in messages. A window of "before 3, after 8" around
// message i scans messages [i-3, i+8).
type Config struct {
	ConfirmBefore int `koanf:"confirm_before" json:"confirm_before"`
	ConfirmAfter  int `koanf:"confirm_after" json:"confirm_after"`
	DateBefore    int `koanf:"date_before" json:"date_before"`
	DateAfter     int `koanf:"date_after" json:"date_after"`

	// DefaultYear is used for date phrases that omit the year.
	DefaultYear int `koanf:"default_year" json:"default_year"`

	// Destination and the fallback range label itineraries built from runs
	// that found no dated items.
	Destination   string         `koanf:"destination" json:"destination"`
	FallbackStart itinerary.Date `koanf:"-" json:"fallback_start"`
	FallbackEnd   itinerary.Date `koanf:"-" json:"fallback_end"`
}

// DefaultConfig returns the engine defaults for the 2026 Thailand trip.
func DefaultConfig() Config {
	return Config{
		ConfirmBefore: 3,
		ConfirmAfter:  8,
		DateBefore:    5,
		DateAfter:     5,
		DefaultYear:   2026,
		Destination:   "Thailand",
		FallbackStart: itinerary.MustParseDate("2026-03-14"),
		FallbackEnd:   itinerary.MustParseDate("2026-03-28"),
	}
}

// Validate checks the config for impossible values.
func (c Config) Validate() error {
	if c.ConfirmBefore < 0 || c.ConfirmAfter < 0 {
		return fmt.Errorf("confirmation window must not be negative (before=%d, after=%d)", c.ConfirmBefore, c.ConfirmAfter)
	}
	if c.DateBefore < 0 || c.DateAfter < 0 {
		return fmt.Errorf("date window must not be negative (before=%d, after=%d)", c.DateBefore, c.DateAfter)
	}
	if c.DefaultYear < 1 || c.DefaultYear > 9999 {
		return fmt.Errorf("default year out of range: %d", c.DefaultYear)
	}
	if c.FallbackStart.IsZero() || c.FallbackEnd.IsZero() {
		return fmt.Errorf("fallback trip range is required")
	}
	if c.FallbackEnd.Before(c.FallbackStart) {
		return fmt.Errorf("fallback end %s is before fallback start %s", c.FallbackEnd, c.FallbackStart)
	}
	return nil
}

// Discard reasons reported in Stats.
const (
	ReasonDuplicate   = "duplicate"
	ReasonUngated     = "ungated"
	ReasonUnconfirmed = "unconfirmed"
	ReasonLocation    = "location_collapse"
)

// Stats summarises one extraction run.
type Stats struct {
	Messages  int                        `json:"messages"`
	Extracted map[itinerary.Category]int `json:"extracted"`
	Discarded map[string]int             `json:"discarded"`
}

func newStats(messages int) *Stats {
	return &Stats{
		Messages:  messages,
		Extracted: make(map[itinerary.Category]int),
		Discarded: make(map[string]int),
	}
}
