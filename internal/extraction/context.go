package extraction

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// window returns the half-open message range [idx-before, idx+after) clamped
// to the message list.
func (e *EntityExtractor) window(idx, before, after int) (start, end int) {
	start = idx - before
	if start < 0 {
		start = 0
	}
	end = idx + after
	if end > len(e.messages) {
		end = len(e.messages)
	}
	return start, end
}

// checkConfirmation reports CONFIRMED when any confirmation phrase appears in
// the narrow window around idx. Proposals are usually confirmed shortly
// after, so the window reaches further forward than back.
func (e *EntityExtractor) checkConfirmation(idx int) itinerary.Status {
	start, end := e.window(idx, e.cfg.ConfirmBefore, e.cfg.ConfirmAfter)
	for _, msg := range e.messages[start:end] {
		for _, re := range confirmationPatterns {
			if re.MatchString(msg.Content) {
				return itinerary.StatusConfirmed
			}
		}
	}
	return itinerary.StatusTentative
}

// dateFromContext returns the first parseable date phrase in the window
// around idx. Only the first phrase of each message is considered.
func (e *EntityExtractor) dateFromContext(idx int) *itinerary.Date {
	start, end := e.window(idx, e.cfg.DateBefore, e.cfg.DateAfter)
	for _, msg := range e.messages[start:end] {
		m := datePhrasePattern.FindStringSubmatch(msg.Content)
		if m == nil {
			continue
		}
		if d, ok := parseDatePhrase(m[1], m[2], m[3], e.cfg.DefaultYear); ok {
			return d.Ptr()
		}
	}
	return nil
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseDatePhrase turns the captured parts of a "14th March 2026" phrase
// into a date. Impossible dates such as "31 Feb" are rejected rather than
// rolled over.
func parseDatePhrase(day, month, year string, defaultYear int) (itinerary.Date, bool) {
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 {
		return itinerary.Date{}, false
	}
	if len(month) < 3 {
		return itinerary.Date{}, false
	}
	m, ok := monthsByPrefix[strings.ToLower(month[:3])]
	if !ok {
		return itinerary.Date{}, false
	}
	y := defaultYear
	if year != "" {
		if y, err = strconv.Atoi(year); err != nil {
			return itinerary.Date{}, false
		}
	}
	date := itinerary.NewDate(y, m, d)
	if date.Day() != d || date.Month() != m {
		return itinerary.Date{}, false
	}
	return date, true
}

// bookingURLDates reads checkin/checkout query parameters from a booking
// link. A malformed value yields nil for that field only.
func bookingURLDates(raw string) (checkIn, checkOut *itinerary.Date) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, nil
	}
	q := u.Query()
	if v := q.Get("checkin"); v != "" {
		if d, err := itinerary.ParseDate(v); err == nil {
			checkIn = d.Ptr()
		}
	}
	if v := q.Get("checkout"); v != "" {
		if d, err := itinerary.ParseDate(v); err == nil {
			checkOut = d.Ptr()
		}
	}
	return checkIn, checkOut
}

// firstBookingURLDate returns the first check-in date found on any booking
// link in text.
func firstBookingURLDate(text string) *itinerary.Date {
	for _, u := range bookingURLPattern.FindAllString(text, -1) {
		if checkIn, _ := bookingURLDates(u); checkIn != nil {
			return checkIn
		}
	}
	return nil
}
