// Package itinerary defines the travel domain model shared by the extraction
// engine, the renderers and the web front end: messages, travel items and the
// itinerary that groups them.
package itinerary

import (
	"fmt"
	"strings"
	"time"
)

// Category is the kind of booking a travel item represents.
type Category string

const (
	CategoryFlight   Category = "flight"
	CategoryHotel    Category = "hotel"
	CategoryTransfer Category = "transfer"
	// CategoryActivity is reserved for curated data and renderers. The
	// extraction engine never produces it.
	CategoryActivity Category = "activity"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryFlight, CategoryHotel, CategoryTransfer, CategoryActivity}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFlight, CategoryHotel, CategoryTransfer, CategoryActivity:
		return true
	}
	return false
}

// Icon returns the glyph used for c in rendered views.
func (c Category) Icon() string {
	switch c {
	case CategoryFlight:
		return "✈"
	case CategoryHotel:
		return "🏨"
	case CategoryTransfer:
		return "⛴"
	case CategoryActivity:
		return "🎯"
	}
	return "📌"
}

// Label returns the capitalized category name.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// UnmarshalText rejects unknown categories.
func (c *Category) UnmarshalText(text []byte) error {
	v := Category(text)
	if !v.Valid() {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = v
	return nil
}

// Status records whether the conversation affirmed a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
)

// Message is one logical chat message produced by the transcript reader.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	IsSystem  bool      `json:"is_system,omitempty"`
}

// TravelItem is one extracted or curated booking.
type TravelItem struct {
	ID         string            `json:"id"`
	Category   Category          `json:"category"`
	Status     Status            `json:"status,omitempty"`
	Title      string            `json:"title"`
	StartDate  *Date             `json:"start_date,omitempty"`
	EndDate    *Date             `json:"end_date,omitempty"`
	Location   string            `json:"location,omitempty"`
	ProposedBy string            `json:"proposed_by,omitempty"`
	Details    map[string]string `json:"details,omitempty"`

	BookingLinks   []string  `json:"booking_links,omitempty"`
	SourceMessages []Message `json:"source_messages,omitempty"`

	// Highlights are free-form tags carried by curated data files.
	Highlights []string `json:"highlights,omitempty"`
}

// FormattedDate renders the item's date span, e.g. "Mar 14" or "Mar 14 - Mar 20".
func (i TravelItem) FormattedDate() string {
	if i.StartDate == nil {
		return ""
	}
	start := i.StartDate.Format("Jan 02")
	if i.EndDate != nil && !i.EndDate.Equal(*i.StartDate) {
		return start + " - " + i.EndDate.Format("Jan 02")
	}
	return start
}

// Clone returns a deep copy of the item.
func (i TravelItem) Clone() TravelItem {
	out := i
	if i.StartDate != nil {
		out.StartDate = i.StartDate.Ptr()
	}
	if i.EndDate != nil {
		out.EndDate = i.EndDate.Ptr()
	}
	if i.Details != nil {
		out.Details = make(map[string]string, len(i.Details))
		for k, v := range i.Details {
			out.Details[k] = v
		}
	}
	out.BookingLinks = append([]string(nil), i.BookingLinks...)
	out.SourceMessages = append([]Message(nil), i.SourceMessages...)
	out.Highlights = append([]string(nil), i.Highlights...)
	return out
}
