package extraction

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

func (e *EntityExtractor) extractHotels(r *run) []itinerary.TravelItem {
	var items []itinerary.TravelItem

	for i, msg := range e.messages {
		var (
			name              string
			checkIn, checkOut *itinerary.Date
			link              string
		)

		if m := checkOutPattern.FindStringSubmatch(msg.Content); m != nil {
			name = strings.TrimSpace(m[1])
		}

		for _, u := range bookingURLPattern.FindAllString(msg.Content, -1) {
			if name == "" {
				name = hotelNameFromURL(u)
			}
			if in, out := bookingURLDates(u); in != nil {
				checkIn, checkOut = in, out
			}
			link = u
		}

		if checkIn == nil {
			checkIn = e.dateFromContext(i)
		}

		if name == "" {
			continue
		}
		if !r.claim(r.seenHotels, strings.ToLower(strings.TrimSpace(name))) {
			continue
		}

		item := itinerary.TravelItem{
			ID:             r.id(),
			Category:       itinerary.CategoryHotel,
			Status:         e.checkConfirmation(i),
			Title:          name,
			StartDate:      checkIn,
			EndDate:        checkOut,
			Location:       hotelLocationOf(name),
			ProposedBy:     msg.Sender,
			SourceMessages: []itinerary.Message{msg},
		}
		if link != "" {
			item.BookingLinks = []string{link}
		}
		items = append(items, item)
	}
	return items
}

// hotelNameFromURL derives a display name from a booking link path such as
// /hotel/th/sea-breeze-resort.en-gb.html.
func hotelNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	m := hotelPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ""
	}
	return titleCase(strings.ReplaceAll(m[1], "-", " "))
}

// titleCase upper-cases every letter that starts a run of letters and
// lower-cases the rest, so "sea breeze 2go" becomes "Sea Breeze 2Go".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
