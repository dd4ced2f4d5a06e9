package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

func chat(contents ...string) []itinerary.Message {
	base := time.Date(2025, time.November, 2, 9, 0, 0, 0, time.UTC)
	msgs := make([]itinerary.Message, len(contents))
	for i, c := range contents {
		sender := "Ana"
		if i%2 == 1 {
			sender = "Ben"
		}
		msgs[i] = itinerary.Message{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Sender:    sender,
			Content:   c,
		}
	}
	return msgs
}

func extract(t *testing.T, confirmedOnly bool, contents ...string) []itinerary.TravelItem {
	t.Helper()
	return NewEntityExtractor(chat(contents...), DefaultConfig(), nil).ExtractAll(confirmedOnly)
}

func titles(items []itinerary.TravelItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func ofCategory(items []itinerary.TravelItem, cat itinerary.Category) []itinerary.TravelItem {
	var out []itinerary.TravelItem
	for _, item := range items {
		if item.Category == cat {
			out = append(out, item)
		}
	}
	return out
}

var mixedTrip = []string{
	"Check out Sea Breeze Resort Lipe on Booking.com! https://www.booking.com/hotel/th/sea-breeze-resort.en-gb.html?checkin=2026-03-18&checkout=2026-03-21",
	"booked!",
	"Etihad LHR to BKK £450pp on 14th March",
	"Ferry from Koh Lipe to Koh Lanta at 10.45",
	"nice",
	"see you there",
	"ok",
	"great",
	"https://www.booking.com/hotel/th/the-old-house-lanta.en-gb.html",
}

func TestExtractAll_Idempotent(t *testing.T) {
	extractor := NewEntityExtractor(chat(mixedTrip...), DefaultConfig(), nil)

	first := extractor.ExtractAll(false)
	second := extractor.ExtractAll(false)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestExtractAll_IDsFollowDetectorOrder(t *testing.T) {
	items := extract(t, false, mixedTrip...)

	byTitle := map[string]string{}
	for _, item := range items {
		byTitle[item.Title] = item.ID
	}
	assert.Equal(t, map[string]string{
		"Sea Breeze Resort Lipe": "item-1",
		"The Old House Lanta":    "item-2",
		"Etihad LHR → BKK":       "item-3",
		"Ferry Lipe → Lanta":     "item-4",
	}, byTitle)
}

func TestExtractAll_SortedByDateUndatedLast(t *testing.T) {
	items := extract(t, false, mixedTrip...)

	require.Len(t, items, 4)
	assert.Equal(t, "2026-03-14", items[0].StartDate.String())
	assert.Equal(t, "2026-03-14", items[1].StartDate.String())
	assert.Equal(t, "2026-03-18", items[2].StartDate.String())
	assert.Nil(t, items[3].StartDate)
	assert.Equal(t, "The Old House Lanta", items[3].Title)
}

func TestExtractHotels_CheckOutPhrase(t *testing.T) {
	items := extract(t, false, mixedTrip[0], mixedTrip[1])

	require.Len(t, items, 1)
	hotel := items[0]
	assert.Equal(t, itinerary.CategoryHotel, hotel.Category)
	assert.Equal(t, itinerary.StatusConfirmed, hotel.Status)
	assert.Equal(t, "Sea Breeze Resort Lipe", hotel.Title)
	assert.Equal(t, "2026-03-18", hotel.StartDate.String())
	assert.Equal(t, "2026-03-21", hotel.EndDate.String())
	assert.Equal(t, "Koh Lipe", hotel.Location)
	assert.Equal(t, "Ana", hotel.ProposedBy)
	require.Len(t, hotel.BookingLinks, 1)
	assert.Contains(t, hotel.BookingLinks[0], "sea-breeze-resort")
	require.Len(t, hotel.SourceMessages, 1)
}

func TestExtractHotels_NameFromURL(t *testing.T) {
	items := extract(t, false, "https://www.booking.com/hotel/th/the-old-house-lanta.en-gb.html")

	require.Len(t, items, 1)
	assert.Equal(t, "The Old House Lanta", items[0].Title)
	assert.Equal(t, itinerary.StatusTentative, items[0].Status)
	assert.Nil(t, items[0].StartDate)
}

func TestExtractHotels_NoNameSkipped(t *testing.T) {
	items := extract(t, false, "https://www.booking.com/searchresults.html?checkin=2026-03-18", "booked!")
	assert.Empty(t, items)
}

func TestExtractHotels_DedupCaseInsensitive(t *testing.T) {
	extractor := NewEntityExtractor(chat(
		"Check out Castaway Resort on Booking.com",
		"Check out  castaway resort  on Booking.com",
		"https://www.booking.com/hotel/th/castaway-resort.html",
	), DefaultConfig(), nil)

	items := extractor.ExtractAll(false)
	require.Len(t, items, 1)
	assert.Equal(t, "Castaway Resort", items[0].Title)
	assert.Equal(t, 2, extractor.LastStats().Discarded[ReasonDuplicate])
}

func TestExtractHotels_MalformedCheckinFallsThrough(t *testing.T) {
	items := extract(t, false,
		"https://www.booking.com/hotel/th/sunset-villa.html?checkin=2026-02-30",
		"we arrive 20th March",
	)

	require.Len(t, items, 1)
	assert.Equal(t, "Sunset Villa", items[0].Title)
	require.NotNil(t, items[0].StartDate)
	assert.Equal(t, "2026-03-20", items[0].StartDate.String())
	assert.Nil(t, items[0].EndDate)
}

func TestExtractAll_LocationCollapse(t *testing.T) {
	extractor := NewEntityExtractor(chat(
		"Check out Castaway Lipe on Booking.com",
		"Check out Lanta Sand Resort on Booking.com",
		"Check out Mountain Lipe Resort on Booking.com",
		"All booked",
	), DefaultConfig(), nil)

	items := extractor.ExtractAll(true)
	assert.Equal(t, []string{"Castaway Lipe", "Lanta Sand Resort"}, titles(items))
	assert.Equal(t, 1, extractor.LastStats().Discarded[ReasonLocation])

	all := extractor.ExtractAll(false)
	assert.Len(t, all, 3)
}

func TestExtractAll_UnknownLocationHotelsKept(t *testing.T) {
	items := extract(t, true,
		"Check out Hotel One on Booking.com",
		"Check out Hotel Two on Booking.com",
		"sorted",
	)
	assert.Equal(t, []string{"Hotel One", "Hotel Two"}, titles(items))
}

func TestExtractAll_ConfirmedOnlyDropsTentative(t *testing.T) {
	items := extract(t, true, "https://www.booking.com/hotel/th/the-old-house-lanta.en-gb.html")
	assert.Empty(t, items)
}

func TestExtractFlights_Gate(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     int
	}{
		{
			name:     "no flight context",
			messages: []string{"I like Etihad", "confirmed"},
			want:     0,
		},
		{
			name:     "context without date or confirmation",
			messages: []string{"Etihad flight looks good"},
			want:     0,
		},
		{
			name:     "confirmed nearby",
			messages: []string{"Etihad flight looks good", "Confirmed"},
			want:     1,
		},
		{
			name:     "dated but tentative",
			messages: []string{"Etihad flight looks good", "leaving 14th March"},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ofCategory(extract(t, false, tt.messages...), itinerary.CategoryFlight)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestExtractFlights_ConfirmedItem(t *testing.T) {
	items := extract(t, true, "Etihad flight looks good", "Confirmed")

	require.Len(t, items, 1)
	assert.Equal(t, "Etihad Flight", items[0].Title)
	assert.Equal(t, itinerary.StatusConfirmed, items[0].Status)
}

func TestExtractFlights_RouteCostAndDate(t *testing.T) {
	items := extract(t, false, "Etihad LHR to BKK £450pp on 14th March")

	require.Len(t, items, 1)
	flight := items[0]
	assert.Equal(t, "Etihad LHR → BKK", flight.Title)
	assert.Equal(t, "£450", flight.Details["cost"])
	assert.Equal(t, "2026-03-14", flight.StartDate.String())
	assert.Equal(t, itinerary.StatusTentative, flight.Status)
}

func TestExtractFlights_OnePerMessage(t *testing.T) {
	items := extract(t, false, "Etihad or Air Asia flight on 14th March")

	require.Len(t, items, 1)
	assert.Equal(t, "Etihad Flight", items[0].Title)
}

func TestExtractFlights_DuplicateMovesToNextAirline(t *testing.T) {
	items := extract(t, false,
		"Etihad flight on 14th March",
		"Etihad or Air Asia flight on 14th March",
	)
	assert.Equal(t, []string{"Etihad Flight", "Air Asia Flight"}, titles(items))
}

func TestExtractFlights_QatarHotelIsNotAFlight(t *testing.T) {
	items := extract(t, false, "The Qatar hotel by the airport looked nice on 14 March")
	assert.Empty(t, ofCategory(items, itinerary.CategoryFlight))

	items = extract(t, false, "Qatar flight on 14 March")
	require.Len(t, items, 1)
	assert.Equal(t, "Qatar Flight", items[0].Title)
}

func TestExtractFlights_DateFromBookingLink(t *testing.T) {
	items := extract(t, false, "Thai Airways flight, booking https://www.booking.com/flights/x?checkin=2026-03-16")

	require.Len(t, items, 1)
	assert.Equal(t, "2026-03-16", items[0].StartDate.String())
}

func TestExtractTransfers(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantTitle string
		wantTime  string
	}{
		{
			name:      "route with time",
			message:   "Ferry from Koh Lipe to Koh Lanta at 10.45",
			wantTitle: "Ferry Lipe → Lanta",
			wantTime:  "10:45",
		},
		{
			name:      "route follows island table order",
			message:   "speedboat from Lanta back to Koh Lipe",
			wantTitle: "Speedboat Lipe → Lanta",
		},
		{
			name:      "single island",
			message:   "Longtail boat to Kradan",
			wantTitle: "Longtail Boat to Kradan",
		},
		{
			name:      "time only",
			message:   "ferry leaves 9:30",
			wantTitle: "Ferry",
			wantTime:  "9:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := extract(t, false, tt.message)
			require.Len(t, items, 1)
			assert.Equal(t, itinerary.CategoryTransfer, items[0].Category)
			assert.Equal(t, tt.wantTitle, items[0].Title)
			assert.Equal(t, tt.wantTime, items[0].Details["time"])
		})
	}
}

func TestExtractTransfers_UngatedSkipped(t *testing.T) {
	extractor := NewEntityExtractor(chat("the ferry sounds fun"), DefaultConfig(), nil)
	assert.Empty(t, extractor.ExtractAll(false))
	assert.Equal(t, 1, extractor.LastStats().Discarded[ReasonUngated])
}

func TestExtractTransfers_ConfirmedWithoutRoute(t *testing.T) {
	items := extract(t, true, "the ferry sounds fun", "sorted")
	require.Len(t, items, 1)
	assert.Equal(t, "Ferry", items[0].Title)
}

func TestExtractTransfers_Dedup(t *testing.T) {
	items := extract(t, false,
		"Ferry from Koh Lipe to Koh Lanta",
		"ferry Lanta to Lipe then",
	)
	assert.Len(t, items, 1)
}

func TestSystemMessagesIgnored(t *testing.T) {
	msgs := chat("Check out Castaway Resort on Booking.com")
	msgs = append(msgs, itinerary.Message{Sender: "system", Content: "booked", IsSystem: true})

	extractor := NewEntityExtractor(msgs, DefaultConfig(), nil)
	assert.Equal(t, 1, extractor.Messages())

	items := extractor.ExtractAll(false)
	require.Len(t, items, 1)
	assert.Equal(t, itinerary.StatusTentative, items[0].Status)
}

func TestConfirmationWindowBounds(t *testing.T) {
	cfg := DefaultConfig()
	hotel := "Check out Castaway Resort on Booking.com"
	filler := "ok"

	// Three messages before is inside the window, four is not.
	inside := chat("booked", filler, filler, hotel)
	outside := chat("booked", filler, filler, filler, hotel)
	assert.Equal(t, itinerary.StatusConfirmed, NewEntityExtractor(inside, cfg, nil).ExtractAll(false)[0].Status)
	assert.Equal(t, itinerary.StatusTentative, NewEntityExtractor(outside, cfg, nil).ExtractAll(false)[0].Status)

	// Seven messages after is inside, eight is not.
	after := []string{hotel}
	for i := 0; i < 6; i++ {
		after = append(after, filler)
	}
	insideAfter := chat(append(append([]string(nil), after...), "booked")...)
	outsideAfter := chat(append(append([]string(nil), after...), filler, "booked")...)
	assert.Equal(t, itinerary.StatusConfirmed, NewEntityExtractor(insideAfter, cfg, nil).ExtractAll(false)[0].Status)
	assert.Equal(t, itinerary.StatusTentative, NewEntityExtractor(outsideAfter, cfg, nil).ExtractAll(false)[0].Status)
}

func TestDateFromContext_SkipsImpossibleDates(t *testing.T) {
	items := extract(t, false,
		"31 Feb is not a thing",
		"see you 2nd April",
		"Check out Castaway Resort on Booking.com",
	)
	require.Len(t, items, 1)
	assert.Equal(t, "2026-04-02", items[0].StartDate.String())
}

func TestBuildItinerary(t *testing.T) {
	extractor := NewEntityExtractor(chat(mixedTrip...), DefaultConfig(), nil)

	trip := extractor.BuildItinerary("Thailand 2026", []string{"Ana", "Ben"}, false)
	assert.Equal(t, "Thailand", trip.Destination)
	assert.Equal(t, "2026-03-14", trip.StartDate.String())
	assert.Equal(t, "2026-03-18", trip.EndDate.String())
	assert.Len(t, trip.Items, 4)
	assert.Equal(t, []string{"Ana", "Ben"}, trip.Participants)
}

func TestBuildItinerary_FallbackRange(t *testing.T) {
	extractor := NewEntityExtractor(chat("hello", "anyone there?"), DefaultConfig(), nil)

	trip := extractor.BuildItinerary("Empty", nil, true)
	assert.Empty(t, trip.Items)
	assert.Equal(t, "2026-03-14", trip.StartDate.String())
	assert.Equal(t, "2026-03-28", trip.EndDate.String())
}

func TestParseDatePhrase(t *testing.T) {
	tests := []struct {
		day, month, year string
		want             string
		ok               bool
	}{
		{"14", "March", "", "2026-03-14", true},
		{"2", "apr", "2027", "2027-04-02", true},
		{"31", "Feb", "", "", false},
		{"29", "February", "2028", "2028-02-29", true},
		{"0", "Jan", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.day+" "+tt.month+" "+tt.year, func(t *testing.T) {
			got, ok := parseDatePhrase(tt.day, tt.month, tt.year, 2026)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Sea Breeze Resort", titleCase("sea breeze resort"))
	assert.Equal(t, "Baan Koh 2Go", titleCase("BAAN KOH 2go"))
	assert.Equal(t, "Longtail Boat", titleCase("longtail boat"))
}

func TestIslandRoute(t *testing.T) {
	assert.Equal(t, []string{"Lipe", "Lanta"}, islandRoute("from koh lipe (lipe!) to koh lanta"))
	assert.Equal(t, []string{"Kradan"}, islandRoute("kradan"))
	assert.Empty(t, islandRoute("bangkok"))
	assert.Equal(t, []string{"Lipe", "Lanta"}, islandRoute("from lanta back to lipe"), "table order, not message order")
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ConfirmAfter = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FallbackEnd = itinerary.MustParseDate("2026-01-01")
	assert.Error(t, cfg.Validate())
}
