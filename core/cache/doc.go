// Package cache implements the response cache consulted before dispatching a
// request to the application.
//
// A Gate fingerprints the incoming request (method, normalized path, relevant
// query parameters and configured vary headers) and looks the fingerprint up
// in a Store. Lookup has no side effects: a miss writes nothing and an
// unreachable store is reported as a miss. Save stores successful responses
// to cacheable methods unless the response opts out with Cache-Control
// no-store or no-cache.
//
//	gate := cache.NewGate(cache.NewMemory(1024),
//		cache.WithTTL(time.Minute),
//		cache.WithIgnoreParams("utm_source", "utm_medium"),
//	)
//
//	if resp, ok := gate.Lookup(ctx, r); ok {
//		// write resp
//	}
//
// Memory is an in-process LRU store. Shared stores backed by Redis, LevelDB
// and SQLite live under integration/cache and encode entries with
// EncodeEntry/DecodeEntry.
package cache
