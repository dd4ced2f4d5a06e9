package extraction

import (
	"strings"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// extractFlights scans messages that carry flight context for airline
// mentions. At most one flight is produced per message.
func (e *EntityExtractor) extractFlights(r *run) []itinerary.TravelItem {
	var items []itinerary.TravelItem

	for i, msg := range e.messages {
		if !hasFlightContext(msg.Content) {
			continue
		}

		for _, airline := range airlinePatterns {
			if !airline.match(msg.Content) {
				continue
			}

			var cost string
			if m := costPattern.FindStringSubmatch(msg.Content); m != nil {
				cost = m[1]
			}
			route := flightRoute(msg.Content)

			date := firstBookingURLDate(msg.Content)
			if date == nil {
				date = e.dateFromContext(i)
			}

			// The key is taken before gating, so a gated-out mention still
			// suppresses a later identical one.
			routeKey, dateKey := route, "nodate"
			if routeKey == "" {
				routeKey = "unknown"
			}
			if date != nil {
				dateKey = date.String()
			}
			if !r.claim(r.seenFlights, airline.name+"-"+routeKey+"-"+dateKey) {
				continue
			}

			status := e.checkConfirmation(i)
			if status != itinerary.StatusConfirmed && date == nil {
				r.stats.Discarded[ReasonUngated]++
				continue
			}

			title := airline.name + " Flight"
			if route != "" {
				title = airline.name + " " + route
			}

			item := itinerary.TravelItem{
				ID:             r.id(),
				Category:       itinerary.CategoryFlight,
				Status:         status,
				Title:          title,
				StartDate:      date,
				ProposedBy:     msg.Sender,
				Details:        map[string]string{},
				SourceMessages: []itinerary.Message{msg},
			}
			if cost != "" {
				item.Details["cost"] = "£" + cost
			}
			items = append(items, item)
			break
		}
	}
	return items
}

func hasFlightContext(content string) bool {
	lower := strings.ToLower(content)
	for _, token := range flightContext {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// flightRoute joins the first two known stops mentioned in content, taken in
// table order, as "A → B". It returns "" when fewer than two are found.
func flightRoute(content string) string {
	upper := strings.ToUpper(content)
	var found []string
	for _, stop := range routeStops {
		if strings.Contains(upper, strings.ToUpper(stop.token)) {
			found = append(found, stop.token)
		}
		if len(found) == 2 {
			return found[0] + " → " + found[1]
		}
	}
	return ""
}
