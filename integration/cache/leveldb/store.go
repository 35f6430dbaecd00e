// Package leveldb keeps cached responses in an on-disk LevelDB database so
// the cache survives restarts of the host.
package leveldb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

const keyPrefix = "e:"

// Store implements cache.Store on LevelDB.
type Store struct {
	db  *leveldb.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %q: %w", path, err)
	}
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Get(_ context.Context, key string) (*handler.Response, bool, error) {
	k := []byte(keyPrefix + key)
	data, err := s.db.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leveldb get: %w", err)
	}

	e, err := cache.DecodeEntry(data)
	if err != nil {
		return nil, false, err
	}
	if e.Expired(s.now()) {
		_ = s.db.Delete(k, nil)
		return nil, false, nil
	}
	return e.Response(), true, nil
}

func (s *Store) Set(_ context.Context, key string, resp *handler.Response, ttl time.Duration) error {
	if resp == nil {
		return cache.ErrNilResponse
	}
	data, err := cache.EncodeEntry(cache.NewEntry(resp, ttl, s.now()))
	if err != nil {
		return err
	}
	if err := s.db.Put([]byte(keyPrefix+key), data, nil); err != nil {
		return fmt.Errorf("leveldb put: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many were dropped.
func (s *Store) Purge(_ context.Context) (int, error) {
	now := s.now()
	iter := s.db.NewIterator(util.BytesPrefix([]byte(keyPrefix)), nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		e, err := cache.DecodeEntry(iter.Value())
		if err != nil || e.Expired(now) {
			batch.Delete(append([]byte(nil), iter.Key()...))
		}
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("leveldb iterate: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return 0, fmt.Errorf("leveldb write: %w", err)
	}
	return batch.Len(), nil
}

// Ping reports whether the database is still open.
func (s *Store) Ping(_ context.Context) error {
	_, err := s.db.GetProperty("leveldb.stats")
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
