package dispatch

import (
	"net/http"

	"github.com/dmitrymomot/prefork/core/handler"
)

// skipHeaders are owned by the transport and never copied from the application.
var skipHeaders = map[string]struct{}{
	"Content-Length":    {},
	"Transfer-Encoding": {},
	"Connection":        {},
}

// translate writes resp to w. Redirect detection happens before any body is
// written; a redirect ends the response without a body.
func translate(w http.ResponseWriter, resp *handler.Response) error {
	copyHeaders(w.Header(), resp.Header)

	if loc := resp.Location(); loc != "" {
		w.Header().Set(handler.HeaderLocation, loc)
		w.WriteHeader(resp.StatusCode())
		return nil
	}

	return writeBody(w, resp)
}

// writeCached replays a stored response. Stored responses are never redirects.
func writeCached(w http.ResponseWriter, resp *handler.Response) error {
	copyHeaders(w.Header(), resp.Header)
	return writeBody(w, resp)
}

// writeBody writes Content-Type, status and body.
func writeBody(w http.ResponseWriter, resp *handler.Response) error {
	ct := resp.ContentType()
	if ct == "" {
		ct = handler.DefaultContentType
	}
	w.Header().Set(handler.HeaderContentType, ct)
	w.WriteHeader(resp.StatusCode())

	if len(resp.Body) == 0 {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}

func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		key := http.CanonicalHeaderKey(k)
		if _, skip := skipHeaders[key]; skip {
			continue
		}
		dst[key] = append([]string(nil), vs...)
	}
}
