package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/prefork/core/handler"
)

// Entry is the serialized form of a cached response used by external stores.
type Entry struct {
	Status    int
	Header    http.Header
	Body      []byte
	ExpiresAt time.Time
}

func init() {
	gob.Register(http.Header{})
}

// NewEntry snapshots resp with an optional ttl.
func NewEntry(resp *handler.Response, ttl time.Duration, now time.Time) Entry {
	e := Entry{Status: resp.Status, Header: resp.Header, Body: resp.Body}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	return e
}

// Expired reports whether the entry has a deadline at or before now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Response converts the entry back into an application response.
func (e Entry) Response() *handler.Response {
	h := e.Header
	if h == nil {
		h = make(http.Header)
	}
	return &handler.Response{Status: e.Status, Header: h, Body: e.Body}
}

// EncodeEntry serializes e with encoding/gob.
func EncodeEntry(e Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeEntry, err)
	}
	return buf.Bytes(), nil
}

// DecodeEntry parses data produced by EncodeEntry.
func DecodeEntry(data []byte) (Entry, error) {
	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrDecodeEntry, err)
	}
	if e.Status < 100 || e.Status > 999 {
		return Entry{}, fmt.Errorf("%w: status %d", ErrInvalidEntry, e.Status)
	}
	return e, nil
}
