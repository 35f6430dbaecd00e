package cache_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/prefork/core/cache"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	fp := cache.NewFingerprinter([]string{"utm_source"}, []string{"accept-language"})
	key := func(method, target string, headers ...string) string {
		r := httptest.NewRequest(method, target, nil)
		for i := 0; i+1 < len(headers); i += 2 {
			r.Header.Add(headers[i], headers[i+1])
		}
		return fp.Fingerprint(r)
	}

	base := key("GET", "/items?a=1&b=2")

	assert.True(t, strings.HasPrefix(base, "v1:"))
	assert.Len(t, base, len("v1:")+32)

	tests := []struct {
		name  string
		other string
		same  bool
	}{
		{"query order", key("GET", "/items?b=2&a=1"), true},
		{"ignored param", key("GET", "/items?a=1&b=2&utm_source=x"), true},
		{"duplicate slashes", key("GET", "//items?a=1&b=2"), true},
		{"method", key("HEAD", "/items?a=1&b=2"), false},
		{"path", key("GET", "/items/?a=1&b=2"), false},
		{"query value", key("GET", "/items?a=1&b=3"), false},
		{"vary header", key("GET", "/items?a=1&b=2", "Accept-Language", "de"), false},
		{"non vary header", key("GET", "/items?a=1&b=2", "User-Agent", "x"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.same {
				assert.Equal(t, base, tt.other)
			} else {
				assert.NotEqual(t, base, tt.other)
			}
		})
	}
}
