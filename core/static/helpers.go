package static

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validatePathSecurity ensures the requested path is within the root directory.
func validatePathSecurity(root, requestPath string) error {
	cleanPath := filepath.Clean(requestPath)
	cleanRoot := filepath.Clean(root)

	if !strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator)) && cleanPath != cleanRoot {
		return ErrOutsideRoot
	}

	return nil
}

// validateStartup checks that root exists and is a directory.
func validateStartup(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("error accessing document root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	return nil
}
