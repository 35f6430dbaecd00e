// Package sqlite keeps cached responses in a SQLite database through the
// pure-Go glebarez driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/dmitrymomot/prefork/core/cache"
	"github.com/dmitrymomot/prefork/core/handler"
)

const schema = `CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	expires INTEGER NOT NULL DEFAULT 0,
	bytes BLOB NOT NULL
)`

// Store implements cache.Store on SQLite. An expires value of 0 never expires.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	write sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens dsn (a file path or "file::memory:") and ensures the schema.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// SQLite allows one writer; a single connection also keeps in-memory
	// databases alive across calls.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (*handler.Response, bool, error) {
	var (
		expires int64
		data    []byte
	)
	err := s.db.QueryRowContext(ctx, "SELECT expires, bytes FROM cache WHERE key = ?", key).Scan(&expires, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite get: %w", err)
	}
	if expires > 0 && s.now().UnixNano() >= expires {
		s.write.Lock()
		_, _ = s.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ? AND expires = ?", key, expires)
		s.write.Unlock()
		return nil, false, nil
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
	e := cache.NewEntry(resp, ttl, s.now())
	data, err := cache.EncodeEntry(e)
	if err != nil {
		return err
	}
	var expires int64
	if !e.ExpiresAt.IsZero() {
		expires = e.ExpiresAt.UnixNano()
	}

	s.write.Lock()
	defer s.write.Unlock()
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, expires, bytes) VALUES (?, ?, ?)", key, expires, data); err != nil {
		return fmt.Errorf("sqlite set: %w", err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int, error) {
	s.write.Lock()
	defer s.write.Unlock()
	res, err := s.db.ExecContext(ctx, "DELETE FROM cache WHERE expires > 0 AND expires <= ?", s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
