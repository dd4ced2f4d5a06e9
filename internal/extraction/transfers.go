package extraction

import (
	"slices"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// extractTransfers looks for ferry and boat mentions. At most one transfer is
// produced per message.
func (e *EntityExtractor) extractTransfers(r *run) []itinerary.TravelItem {
	var items []itinerary.TravelItem

	for i, msg := range e.messages {
		lower := strings.ToLower(msg.Content)

		for _, keyword := range transferKeywords {
			if !strings.Contains(lower, keyword) {
				continue
			}

			var clock string
			if m := clockTimePattern.FindStringSubmatch(msg.Content); m != nil {
				clock = m[1] + ":" + m[2]
			}
			route := islandRoute(lower)
			status := e.checkConfirmation(i)
			date := e.dateFromContext(i)

			if status != itinerary.StatusConfirmed && len(route) == 0 && clock == "" {
				r.stats.Discarded[ReasonUngated]++
				continue
			}

			label := titleCase(keyword)
			title := label
			switch {
			case len(route) >= 2:
				title = label + " " + route[0] + " → " + route[1]
			case len(route) == 1:
				title = label + " to " + route[0]
			}

			dateKey := "nodate"
			if date != nil {
				dateKey = date.String()
			}
			sorted := append([]string(nil), route...)
			sort.Strings(sorted)
			if !r.claim(r.seenTransfers, keyword+"-"+strings.Join(sorted, "-")+"-"+dateKey) {
				continue
			}

			item := itinerary.TravelItem{
				ID:             r.id(),
				Category:       itinerary.CategoryTransfer,
				Status:         status,
				Title:          title,
				StartDate:      date,
				ProposedBy:     msg.Sender,
				Details:        map[string]string{},
				SourceMessages: []itinerary.Message{msg},
			}
			if len(route) > 0 {
				item.Location = islandPrefix + route[len(route)-1]
			}
			if clock != "" {
				item.Details["time"] = clock
			}
			items = append(items, item)
			break
		}
	}
	return items
}

// islandRoute returns the islands mentioned in lower in islands table order.
// "Koh Lipe" and "Lipe" count as the same island.
func islandRoute(lower string) []string {
	var route []string
	for _, island := range islands {
		if !strings.Contains(lower, strings.ToLower(island)) {
			continue
		}
		name := strings.TrimPrefix(island, islandPrefix)
		if !slices.Contains(route, name) {
			route = append(route, name)
		}
	}
	return route
}
