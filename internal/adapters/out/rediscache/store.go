// Package rediscache implements the shared cache store on top of Redis.
// Geocoding results are the main tenant; entries expire via Redis TTLs so the
// store needs no sweeper of its own.
package rediscache

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

var (
	ErrClientIsRequired = errors.New("redis client is required")
	ErrNegativeTTL      = errors.New("ttl must not be negative")
)

// Store is a Redis-backed implementation of ports.CacheStore.
// Safe for concurrent use; the underlying client pools connections.
type Store struct {
	client *redis.Client
}

// NewStore creates a cache store over an existing Redis client.
func NewStore(client *redis.Client) (*Store, error) {
	if client == nil {
		return nil, ErrClientIsRequired
	}
	return &Store{client: client}, nil
}

// Get returns the value stored under key. An absent or expired key yields
// ports.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrCacheMiss
		}
		return nil, err
	}
	return value, nil
}

// Set stores value under key with the given TTL. A zero TTL stores the value
// without expiration; a negative TTL is a caller bug and is rejected so an
// entry meant to expire never lingers forever.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		return ErrNegativeTTL
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
