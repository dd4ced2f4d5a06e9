package itinerary

import (
	"sort"
)

// Itinerary is the assembled trip: metadata plus the ordered item list.
//
// Once built it is treated as read-only. Groupings are derived on demand and
// never reorder or mutate Items.
type Itinerary struct {
	Title        string       `json:"title"`
	Destination  string       `json:"destination"`
	Participants []string     `json:"participants"`
	StartDate    *Date        `json:"start_date,omitempty"`
	EndDate      *Date        `json:"end_date,omitempty"`
	Items        []TravelItem `json:"items"`
}

// DateGroup holds the items starting on one date. Date is nil for the
// trailing group of undated items.
type DateGroup struct {
	Date  *Date        `json:"date"`
	Items []TravelItem `json:"items"`
}

// CategoryGroup holds the items of one category.
type CategoryGroup struct {
	Category Category     `json:"category"`
	Items    []TravelItem `json:"items"`
}

// ItemsByDate groups items by start date in ascending order. Items without a
// start date are collected into a final group with a nil Date so that every
// item appears exactly once.
func (it *Itinerary) ItemsByDate() []DateGroup {
	index := make(map[string]int)
	var groups []DateGroup
	var undated []TravelItem

	for _, item := range it.Items {
		if item.StartDate == nil {
			undated = append(undated, item)
			continue
		}
		key := item.StartDate.String()
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, DateGroup{Date: item.StartDate.Ptr()})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.Before(*groups[j].Date)
	})

	if len(undated) > 0 {
		groups = append(groups, DateGroup{Items: undated})
	}
	return groups
}

// ItemsByCategory groups items by category in order of first occurrence.
func (it *Itinerary) ItemsByCategory() []CategoryGroup {
	index := make(map[Category]int)
	var groups []CategoryGroup

	for _, item := range it.Items {
		pos, ok := index[item.Category]
		if !ok {
			pos = len(groups)
			index[item.Category] = pos
			groups = append(groups, CategoryGroup{Category: item.Category})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}

// FormattedDates renders the trip span, e.g. "March 14 - 28, 2026".
func (it *Itinerary) FormattedDates() string {
	if it.StartDate == nil || it.EndDate == nil {
		return ""
	}
	return it.StartDate.Format("January 02") + " - " + it.EndDate.Format("02, 2006")
}

// Nights returns the number of nights between the trip start and end dates.
func (it *Itinerary) Nights() int {
	if it.StartDate == nil || it.EndDate == nil {
		return 0
	}
	return it.StartDate.DaysUntil(*it.EndDate)
}

// Count returns the number of items per category.
func (it *Itinerary) Count() map[Category]int {
	counts := make(map[Category]int)
	for _, item := range it.Items {
		counts[item.Category]++
	}
	return counts
}

// Clone returns a deep copy of the itinerary.
func (it *Itinerary) Clone() *Itinerary {
	out := &Itinerary{
		Title:        it.Title,
		Destination:  it.Destination,
		Participants: append([]string(nil), it.Participants...),
		Items:        make([]TravelItem, len(it.Items)),
	}
	if it.StartDate != nil {
		out.StartDate = it.StartDate.Ptr()
	}
	if it.EndDate != nil {
		out.EndDate = it.EndDate.Ptr()
	}
	for i, item := range it.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// SortItems orders items by start date ascending, undated last. The sort is
// stable so items sharing a date keep their relative order.
func SortItems(items []TravelItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].StartDate, items[j].StartDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// DateRange returns the earliest and latest item start dates. ok is false
// when no item carries a date.
func DateRange(items []TravelItem) (start, end Date, ok bool) {
	for _, item := range items {
		if item.StartDate == nil {
			continue
		}
		d := *item.StartDate
		if !ok {
			start, end, ok = d, d, true
			continue
		}
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	return start, end, ok
}
