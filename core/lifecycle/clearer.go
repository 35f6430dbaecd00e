package lifecycle

import "runtime/debug"

// Clearer drops process-level caches before a worker starts serving.
// Implementations must be idempotent.
type Clearer interface {
	Clear() error
}

// ClearerFunc adapts a function to Clearer.
type ClearerFunc func() error

func (f ClearerFunc) Clear() error {
	return f()
}

// FreeOSMemory forces a garbage collection and returns freed memory to the
// operating system, so a respawned worker starts from a compact heap.
var FreeOSMemory Clearer = ClearerFunc(func() error {
	debug.FreeOSMemory()
	return nil
})
