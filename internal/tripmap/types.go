// Package tripmap builds the interactive route map from a hand-maintained
// dataset of locations, hotels and points of interest.
//
// The dataset is independent of extracted itineraries. It lives in three
// files in one directory: locations.json, hotels.json and pois.json.
package tripmap

// Location is a named point on the map, keyed by a short id such as "lipe".
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	// Type selects the marker style, e.g. "city" or "island".
	Type string `json:"type"`
}

// Segment is one leg of the route between two location ids.
type Segment struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Type  string `json:"type"` // flight, ferry or transfer
	Label string `json:"label"`
	Date  string `json:"date"`
}

// Locations is the content of locations.json.
type Locations struct {
	Locations map[string]Location `json:"locations"`
	Route     []Segment           `json:"route"`
}

// Weather is the typical weather at a stay.
type Weather struct {
	Condition string  `json:"condition"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Rain      float64 `json:"rain"`
	Desc      string  `json:"desc"`
}

// Hotel is one stay from hotels.json.
type Hotel struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Nights        int      `json:"nights"`
	Arrival       string   `json:"arrival"`
	ArrivalTime   string   `json:"arrivalTime"`
	Departure     string   `json:"departure"`
	DepartureTime string   `json:"departureTime"`
	Weather       *Weather `json:"weather,omitempty"`
	Summary       string   `json:"summary,omitempty"`
}

// POI categories.
const (
	CategoryDinner     = "dinner"
	CategoryLunch      = "lunch"
	CategoryBar        = "bar"
	CategoryDiving     = "diving"
	CategoryAttraction = "attraction"
)

// POI is a point of interest near a hotel, from pois.json.
type POI struct {
	HotelID  string `json:"hotel_id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	// Type is the cuisine, attraction kind or dive depth depending on
	// Category.
	Type    string  `json:"type"`
	Desc    string  `json:"desc"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Website string  `json:"website,omitempty"`
}

// Place is a POI as shown on a stay card.
type Place struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Desc    string  `json:"desc"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Website string  `json:"website,omitempty"`
}

// Stay joins a hotel with its nearby places.
type Stay struct {
	Location      string   `json:"location"`
	Hotel         string   `json:"hotel"`
	HotelLat      float64  `json:"hotelLat"`
	HotelLng      float64  `json:"hotelLng"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Nights        int      `json:"nights"`
	Arrival       string   `json:"arrival"`
	ArrivalTime   string   `json:"arrivalTime"`
	Departure     string   `json:"departure"`
	DepartureTime string   `json:"departureTime"`
	Weather       *Weather `json:"weather,omitempty"`
	Summary       string   `json:"summary"`

	Attractions []Place `json:"attractions"`
	Dinner      []Place `json:"dinner"`
	Lunch       []Place `json:"lunch"`
	Bars        []Place `json:"bars"`
	// Diving is nil when the stay has no dive sites.
	Diving []Place `json:"diving"`
}

// Dataset is the raw content of the three data files.
type Dataset struct {
	Locations Locations
	Hotels    []Hotel
	POIs      []POI
}

// Map is the structure embedded in the rendered page.
type Map struct {
	Title     string              `json:"title"`
	Locations map[string]Location `json:"locations"`
	Route     []Segment           `json:"route"`
	Stays     []Stay              `json:"stays"`
}
