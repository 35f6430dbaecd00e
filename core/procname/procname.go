// Package procname sets diagnostic names visible to process inspection tools.
//
// On Linux the name of the calling OS thread is set with prctl(PR_SET_NAME),
// which is what ps -L and top -H display. Callers that want a stable name per
// goroutine lock the goroutine to its thread first. Names are truncated by the
// kernel to 15 bytes. On other platforms Set is a silent no-op.
package procname

// Supported reports whether Set has any effect on this platform.
func Supported() bool {
	return supported
}

// Set names the calling thread. Unsupported platforms return nil.
func Set(name string) error {
	if !supported || name == "" {
		return nil
	}
	return set(name)
}
