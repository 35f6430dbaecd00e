package dispatch

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/prefork/core/handler"
)

// HeaderRequestID carries a caller supplied request id.
const HeaderRequestID = "X-Request-ID"

// Adapt converts a transport request into the application's request shape.
// maxBody bounds the body size; zero or less means unlimited. It fails with
// ErrMalformedRequest only for a nil request or URL and for unreadable or
// oversized bodies.
func Adapt(r *http.Request, maxBody int64) (*handler.Request, error) {
	if r == nil || r.URL == nil {
		return nil, fmt.Errorf("%w: missing request or url", ErrMalformedRequest)
	}

	body, err := readBody(r, maxBody)
	if err != nil {
		return nil, err
	}

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	reqID := r.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
	}

	return &handler.Request{
		Method:     r.Method,
		Path:       path,
		Host:       r.Host,
		Header:     r.Header.Clone(),
		Query:      r.URL.Query(),
		Body:       body,
		RemoteAddr: r.RemoteAddr,
		RequestID:  reqID,
	}, nil
}

func readBody(r *http.Request, maxBody int64) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	src := io.Reader(r.Body)
	if maxBody > 0 {
		// One extra byte distinguishes "exactly at the limit" from "over it".
		src = io.LimitReader(r.Body, maxBody+1)
	}

	body, err := io.ReadAll(src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedRequest, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: read body: %w", ErrMalformedRequest, err)
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedRequest, maxBody)
	}
	return body, nil
}
