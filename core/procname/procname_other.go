//go:build !linux

package procname

const supported = false

func set(string) error { return nil }

// Get always returns "" on platforms without thread naming.
func Get() (string, error) { return "", nil }
