// Package static serves files from a document root ahead of the application.
//
// Gate.TryServe answers GET and HEAD requests whose path resolves to an
// existing regular file under the root and reports whether it did. When it
// returns false nothing has been written and the caller continues with the
// next handler. Directories are never listed or served.
//
//	gate, err := static.NewGate("./public", static.WithLocations("/assets", "/favicon.ico"))
//	if err != nil {
//		return err
//	}
//	if gate.TryServe(w, r) {
//		return
//	}
//
// Paths escaping the root, including through symlinks, are refused.
package static
