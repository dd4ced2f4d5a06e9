package extraction

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// EntityExtractor finds hotels, flights and transfers in a chat transcript.
//
// The message list is fixed at construction. Every call to ExtractAll starts
// from a clean slate, so repeated calls return identical items and ids.
type EntityExtractor struct {
	messages []itinerary.Message
	cfg      Config
	logger   *zap.Logger

	mu    sync.Mutex
	stats *Stats
}

// NewEntityExtractor creates an extractor over messages. System messages are
// dropped up front and never take part in context windows.
func NewEntityExtractor(messages []itinerary.Message, cfg Config, logger *zap.Logger) *EntityExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	filtered := make([]itinerary.Message, 0, len(messages))
	for _, msg := range messages {
		if !msg.IsSystem {
			filtered = append(filtered, msg)
		}
	}
	return &EntityExtractor{
		messages: filtered,
		cfg:      cfg,
		logger:   logger,
		stats:    newStats(len(filtered)),
	}
}

// Messages returns the number of non-system messages under consideration.
func (e *EntityExtractor) Messages() int {
	return len(e.messages)
}

// run carries the state of a single ExtractAll call.
type run struct {
	nextID int
	stats  *Stats

	seenHotels    map[string]struct{}
	seenFlights   map[string]struct{}
	seenTransfers map[string]struct{}
}

func newRun(messages int) *run {
	return &run{
		stats:         newStats(messages),
		seenHotels:    make(map[string]struct{}),
		seenFlights:   make(map[string]struct{}),
		seenTransfers: make(map[string]struct{}),
	}
}

func (r *run) id() string {
	r.nextID++
	return fmt.Sprintf("item-%d", r.nextID)
}

// claim records key in seen. It returns false when the key was already taken.
func (r *run) claim(seen map[string]struct{}, key string) bool {
	if _, ok := seen[key]; ok {
		r.stats.Discarded[ReasonDuplicate]++
		return false
	}
	seen[key] = struct{}{}
	return true
}

// ExtractAll runs the hotel, flight and transfer detectors in that order and
// returns the combined items sorted by start date, undated last.
//
// With confirmedOnly, tentative items are dropped and at most one hotel is
// kept per known destination.
func (e *EntityExtractor) ExtractAll(confirmedOnly bool) []itinerary.TravelItem {
	r := newRun(len(e.messages))

	var items []itinerary.TravelItem
	items = append(items, e.extractHotels(r)...)
	items = append(items, e.extractFlights(r)...)
	items = append(items, e.extractTransfers(r)...)

	if confirmedOnly {
		confirmed := items[:0]
		for _, item := range items {
			if item.Status == itinerary.StatusConfirmed {
				confirmed = append(confirmed, item)
				continue
			}
			r.stats.Discarded[ReasonUnconfirmed]++
		}
		items = dedupeByLocation(confirmed, r.stats)
	}

	itinerary.SortItems(items)

	for _, item := range items {
		r.stats.Extracted[item.Category]++
	}

	e.mu.Lock()
	e.stats = r.stats
	e.mu.Unlock()

	e.logger.Debug("extraction complete",
		zap.Int("messages", len(e.messages)),
		zap.Int("items", len(items)),
		zap.Bool("confirmed_only", confirmedOnly),
	)
	return items
}

// LastStats returns the statistics of the most recent ExtractAll call.
func (e *EntityExtractor) LastStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := *newStats(e.stats.Messages)
	for k, v := range e.stats.Extracted {
		out.Extracted[k] = v
	}
	for k, v := range e.stats.Discarded {
		out.Discarded[k] = v
	}
	return out
}

// BuildItinerary wraps ExtractAll with trip metadata. The trip range spans
// the item start dates, or the configured fallback when no item is dated.
func (e *EntityExtractor) BuildItinerary(title string, participants []string, confirmedOnly bool) *itinerary.Itinerary {
	items := e.ExtractAll(confirmedOnly)

	start, end, ok := itinerary.DateRange(items)
	if !ok {
		start, end = e.cfg.FallbackStart, e.cfg.FallbackEnd
	}

	return &itinerary.Itinerary{
		Title:        title,
		Destination:  e.cfg.Destination,
		Participants: append([]string(nil), participants...),
		StartDate:    start.Ptr(),
		EndDate:      end.Ptr(),
		Items:        items,
	}
}

// hotelLocationOf returns the destination a hotel name belongs to, or "".
func hotelLocationOf(name string) string {
	lower := strings.ToLower(name)
	for _, hl := range hotelLocations {
		if strings.Contains(lower, hl.keyword) {
			return hl.location
		}
	}
	return ""
}

// dedupeByLocation keeps the first hotel per destination. Hotels with no
// known destination and all non-hotel items pass through.
func dedupeByLocation(items []itinerary.TravelItem, stats *Stats) []itinerary.TravelItem {
	seen := make(map[string]struct{})
	out := make([]itinerary.TravelItem, 0, len(items))
	for _, item := range items {
		if item.Category != itinerary.CategoryHotel {
			out = append(out, item)
			continue
		}
		loc := hotelLocationOf(item.Title)
		if loc == "" {
			out = append(out, item)
			continue
		}
		if _, dup := seen[loc]; dup {
			stats.Discarded[ReasonLocation]++
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, item)
	}
	return out
}
