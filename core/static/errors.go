package static

import "errors"

var (
	ErrRootNotFound = errors.New("document root does not exist")
	ErrRootNotDir   = errors.New("document root is not a directory")
	ErrOutsideRoot  = errors.New("invalid path: outside root directory")
)
