package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

const defaultTitle = "Trip Itinerary"

// fileItem mirrors itinerary.TravelItem but accepts hand-written detail
// values of any JSON type.
type fileItem struct {
	itinerary.TravelItem
	Details map[string]any `json:"details,omitempty"`
}

type fileItinerary struct {
	itinerary.Itinerary
	Items []fileItem `json:"items"`
}

// LoadItinerary reads an itinerary JSON file.
func LoadItinerary(path string) (*itinerary.Itinerary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening itinerary: %w", err)
	}
	defer f.Close()

	it, err := DecodeItinerary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return it, nil
}

// DecodeItinerary decodes an itinerary document. Curated files may carry a
// "highlights" list inside details; it is moved to Highlights. Other
// non-string detail values are formatted as text.
func DecodeItinerary(r io.Reader) (*itinerary.Itinerary, error) {
	var doc fileItinerary
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding itinerary: %w", err)
	}

	it := doc.Itinerary
	if it.Title == "" {
		it.Title = defaultTitle
	}
	it.Items = make([]itinerary.TravelItem, 0, len(doc.Items))
	for i, fi := range doc.Items {
		item := fi.TravelItem
		if item.ID == "" {
			return nil, fmt.Errorf("item %d: id is required", i)
		}
		if item.Category == "" {
			return nil, fmt.Errorf("item %s: category is required", item.ID)
		}
		item.Details = nil
		for k, v := range fi.Details {
			if k == "highlights" {
				item.Highlights = append(item.Highlights, toStrings(v)...)
				continue
			}
			if item.Details == nil {
				item.Details = make(map[string]string, len(fi.Details))
			}
			item.Details[k] = toText(v)
		}
		it.Items = append(it.Items, item)
	}
	return &it, nil
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, toText(e))
		}
		return out
	case nil:
		return nil
	default:
		return []string{toText(t)}
	}
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case []any:
		return strings.Join(toStrings(t), ", ")
	default:
		return fmt.Sprint(t)
	}
}

// SaveItinerary writes it as indented JSON, creating parent directories.
func SaveItinerary(path string, it *itinerary.Itinerary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding itinerary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing itinerary: %w", err)
	}
	return nil
}

// detailRow is one rendered detail line.
type detailRow struct {
	Label string
	Value string
}

// detailRows returns item details sorted by key, with labels such as
// "check_in_time" shown as "Check In Time".
func detailRows(details map[string]string) []detailRow {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]detailRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, detailRow{Label: detailLabel(k), Value: details[k]})
	}
	return rows
}

func detailLabel(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
