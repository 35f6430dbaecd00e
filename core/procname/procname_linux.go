//go:build linux

package procname

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const supported = true

const maxNameLen = 15

func set(name string) error {
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	buf, err := unix.BytePtrFromString(name)
	if err != nil {
		return fmt.Errorf("procname: %w", err)
	}
	if err := unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(buf)), 0, 0, 0); err != nil {
		return fmt.Errorf("procname: prctl: %w", err)
	}
	return nil
}

// Get returns the calling thread's name.
func Get() (string, error) {
	var buf [maxNameLen + 1]byte
	if err := unix.Prctl(unix.PR_GET_NAME, uintptr(unsafe.Pointer(&buf[0])), 0, 0, 0); err != nil {
		return "", fmt.Errorf("procname: prctl: %w", err)
	}
	return unix.ByteSliceToString(buf[:]), nil
}
