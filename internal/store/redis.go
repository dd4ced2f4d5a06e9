package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fyrsmithlabs/holidaze/internal/itinerary"
)

// RedisConfig configures RedisStore.
type RedisConfig struct {
	// URL takes precedence over Addr, e.g. redis://:pass@host:6379/1.
	URL      string        `koanf:"url"`
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl"`
}

// RedisStore keeps itineraries as JSON strings under <prefix>itinerary:<key>
// and tracks keys in the <prefix>itineraries set.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		var err error
		if opts, err = redis.ParseURL(cfg.URL); err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (s *RedisStore) itemKey(key string) string {
	return s.prefix + "itinerary:" + key
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "itineraries"
}

func (s *RedisStore) Save(ctx context.Context, key string, it *itinerary.Itinerary) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encoding itinerary: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.itemKey(key), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving itinerary: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, key string) (*itinerary.Itinerary, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.itemKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading itinerary: %w", err)
	}

	var it itinerary.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("decoding itinerary %s: %w", key, err)
	}
	return &it, nil
}

// List returns indexed keys whose values still exist. Keys that expired are
// pruned from the index as a side effect.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing itineraries: %w", err)
	}

	keys := make([]string, 0, len(members))
	var stale []interface{}
	for _, key := range members {
		n, err := s.client.Exists(ctx, s.itemKey(key)).Result()
		if err != nil {
			return nil, fmt.Errorf("listing itineraries: %w", err)
		}
		if n == 0 {
			stale = append(stale, key)
			continue
		}
		keys = append(keys, key)
	}
	if len(stale) > 0 {
		s.client.SRem(ctx, s.indexKey(), stale...)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.itemKey(key)).Result()
	if err != nil {
		return fmt.Errorf("deleting itinerary: %w", err)
	}
	s.client.SRem(ctx, s.indexKey(), key)
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// String identifies the store in logs without exposing credentials.
func (s *RedisStore) String() string {
	addr := s.client.Options().Addr
	return "redis://" + addr + "/" + strings.TrimSuffix(s.prefix, ":")
}

var _ Store = (*RedisStore)(nil)
