package tripmap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Data file names inside the dataset directory.
const (
	LocationsFile = "locations.json"
	HotelsFile    = "hotels.json"
	POIsFile      = "pois.json"
)

// Load reads the three data files from dir. A missing or malformed file is
// an error.
func Load(dir string) (*Dataset, error) {
	var ds Dataset

	if err := loadJSON(filepath.Join(dir, LocationsFile), &ds.Locations); err != nil {
		return nil, err
	}

	var hotels struct {
		Hotels []Hotel `json:"hotels"`
	}
	if err := loadJSON(filepath.Join(dir, HotelsFile), &hotels); err != nil {
		return nil, err
	}
	ds.Hotels = hotels.Hotels

	var pois struct {
		POIs []POI `json:"pois"`
	}
	if err := loadJSON(filepath.Join(dir, POIsFile), &pois); err != nil {
		return nil, err
	}
	ds.POIs = pois.POIs

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// LoadLocations reads only locations.json from dir.
func LoadLocations(dir string) (*Locations, error) {
	var locs Locations
	if err := loadJSON(filepath.Join(dir, LocationsFile), &locs); err != nil {
		return nil, err
	}
	return &locs, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading map data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Validate checks that every POI has a known category.
func (ds *Dataset) Validate() error {
	for i, p := range ds.POIs {
		switch p.Category {
		case CategoryDinner, CategoryLunch, CategoryBar, CategoryDiving, CategoryAttraction:
		default:
			return fmt.Errorf("poi %d (%s): unknown category %q", i, p.Name, p.Category)
		}
	}
	return nil
}

// BuildStays joins each hotel with the POIs that reference its id, keeping
// hotel order and POI order. POIs of unknown hotels are ignored.
func BuildStays(hotels []Hotel, pois []POI) []Stay {
	byHotel := make(map[string][]POI)
	for _, p := range pois {
		byHotel[p.HotelID] = append(byHotel[p.HotelID], p)
	}

	stays := make([]Stay, 0, len(hotels))
	for _, h := range hotels {
		stay := Stay{
			Location:      h.Location,
			Hotel:         h.Name,
			HotelLat:      h.Lat,
			HotelLng:      h.Lng,
			Start:         h.Start,
			End:           h.End,
			Nights:        h.Nights,
			Arrival:       h.Arrival,
			ArrivalTime:   h.ArrivalTime,
			Departure:     h.Departure,
			DepartureTime: h.DepartureTime,
			Weather:       h.Weather,
			Summary:       h.Summary,
			Attractions:   []Place{},
			Dinner:        []Place{},
			Lunch:         []Place{},
			Bars:          []Place{},
		}
		for _, p := range byHotel[h.ID] {
			place := Place{Name: p.Name, Type: p.Type, Desc: p.Desc, Lat: p.Lat, Lng: p.Lng, Website: p.Website}
			switch p.Category {
			case CategoryAttraction:
				stay.Attractions = append(stay.Attractions, place)
			case CategoryDinner:
				stay.Dinner = append(stay.Dinner, place)
			case CategoryLunch:
				stay.Lunch = append(stay.Lunch, place)
			case CategoryBar:
				stay.Bars = append(stay.Bars, place)
			case CategoryDiving:
				place.Website = ""
				stay.Diving = append(stay.Diving, place)
			}
		}
		stays = append(stays, stay)
	}
	return stays
}

// Build assembles the page structure from a dataset.
func Build(title string, ds *Dataset) *Map {
	return &Map{
		Title:     title,
		Locations: ds.Locations.Locations,
		Route:     ds.Locations.Route,
		Stays:     BuildStays(ds.Hotels, ds.POIs),
	}
}
