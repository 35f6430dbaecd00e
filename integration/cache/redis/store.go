// Package redis stores cached responses in Redis so every worker and every
// host shares one response cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "prefork:cache:"

// Store implements cache.Store on a Redis client. Expiry is delegated to
// Redis key TTLs.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a store over client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) (*handler.Response, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	e, err := cache.DecodeEntry(data)
	if err != nil {
		return nil, false, err
	}
	return e.Response(), true, nil
}

func (s *Store) Set(ctx context.Context, key string, resp *handler.Response, ttl time.Duration) error {
	if resp == nil {
		return cache.ErrNilResponse
	}
	// Redis owns expiry; the entry itself carries none.
	data, err := cache.EncodeEntry(cache.NewEntry(resp, 0, time.Now()))
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
