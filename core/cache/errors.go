package cache

import "errors"

var (
	ErrNilStore     = errors.New("cache store is nil")
	ErrNilResponse  = errors.New("cache response is nil")
	ErrDecodeEntry  = errors.New("failed to decode cache entry")
	ErrEncodeEntry  = errors.New("failed to encode cache entry")
	ErrInvalidEntry = errors.New("invalid cache entry")
)
