package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

const (
	HeaderContentType = "Content-Type"
	HeaderLocation    = "Location"

	// DefaultContentType is written when a response declares none.
	DefaultContentType = "application/json"
)

// Response is what the application returns for a request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse creates a response with an empty header set.
func NewResponse(status int, body []byte) *Response {
	return &Response{Status: status, Header: make(http.Header), Body: body}
}

// Text creates a text/plain response.
func Text(status int, body string) *Response {
	r := NewResponse(status, []byte(body))
	r.Header.Set(HeaderContentType, "text/plain; charset=utf-8")
	return r
}

// JSON encodes v as the response body.
func JSON(status int, v any) (*Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	r := NewResponse(status, bytes.TrimRight(buf.Bytes(), "\n"))
	r.Header.Set(HeaderContentType, "application/json; charset=utf-8")
	return r, nil
}

// Redirect creates a redirect response to location.
func Redirect(location string, status int) *Response {
	r := NewResponse(status, nil)
	r.Header.Set(HeaderLocation, location)
	return r
}

// Location returns the redirect target, or "".
func (r *Response) Location() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get(HeaderLocation)
}

// ContentType returns the declared content type, or "".
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get(HeaderContentType)
}

// StatusCode returns the status, treating zero as 200.
func (r *Response) StatusCode() int {
	if r == nil || r.Status == 0 {
		return http.StatusOK
	}
	return r.Status
}

// Clone returns a deep copy.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	c := &Response{Status: r.Status, Header: make(http.Header, len(r.Header))}
	for k, v := range r.Header {
		c.Header[k] = append([]string(nil), v...)
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return c
}

// Equal reports whether two responses carry the same status, headers and body.
func (r *Response) Equal(o *Response) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Status == o.Status &&
		bytes.Equal(r.Body, o.Body) &&
		maps.EqualFunc(r.Header, o.Header, func(a, b []string) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		})
}
