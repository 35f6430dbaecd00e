package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
)

// Fingerprinter derives cache keys from requests.
type Fingerprinter struct {
	ignoreParams map[string]struct{}
	varyHeaders  []string
}

// NewFingerprinter creates a fingerprinter that drops ignoreParams from the
// query and mixes the values of varyHeaders into the key.
func NewFingerprinter(ignoreParams, varyHeaders []string) *Fingerprinter {
	f := &Fingerprinter{ignoreParams: make(map[string]struct{}, len(ignoreParams))}
	for _, p := range ignoreParams {
		f.ignoreParams[p] = struct{}{}
	}
	for _, h := range varyHeaders {
		f.varyHeaders = append(f.varyHeaders, http.CanonicalHeaderKey(h))
	}
	slices.Sort(f.varyHeaders)
	f.varyHeaders = slices.Compact(f.varyHeaders)
	return f
}

// Fingerprint returns "v1:" followed by the hex of the first 16 bytes of a
// sha256 over the canonical request description. Query parameter order and
// repeated slashes in the path do not change the result.
func (f *Fingerprinter) Fingerprint(r *http.Request) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(r.Method))
	b.WriteByte('\n')
	b.WriteString(normalizePath(r.URL.Path))
	b.WriteByte('\n')
	b.WriteString(f.canonicalQuery(r.URL.Query()))
	for _, h := range f.varyHeaders {
		b.WriteByte('\n')
		b.WriteString(h)
		b.WriteByte('=')
		b.WriteString(strings.Join(r.Header.Values(h), ","))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "v1:" + hex.EncodeToString(sum[:16])
}

func (f *Fingerprinter) canonicalQuery(q url.Values) string {
	for p := range f.ignoreParams {
		q.Del(p)
	}
	for _, vs := range q {
		slices.Sort(vs)
	}
	// Encode sorts by key.
	return q.Encode()
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && clean != "/" {
		clean += "/"
	}
	return clean
}
