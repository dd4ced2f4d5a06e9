// Package store persists built itineraries under caller-chosen keys.
//
// FileStore keeps one JSON document per key on disk and is the default.
// RedisStore shares itineraries between a CLI run and a separately deployed
// web front end.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// ErrNotFound is returned when no itinerary is stored under a key.
var ErrNotFound = errors.New("itinerary not found")

// Store saves and loads itineraries.
type Store interface {
	Save(ctx context.Context, key string, it *itinerary.Itinerary) error
	Load(ctx context.Context, key string) (*itinerary.Itinerary, error)
	// List returns stored keys in ascending order.
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]{0,127}$`)

// ValidateKey rejects keys that are not safe as file names and URL path
// segments.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid itinerary key %q", key)
	}
	return nil
}
