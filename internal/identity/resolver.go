// Package identity resolves a connection's owner identity at connect time.
// Authentication itself is an external concern; the relay only needs the
// opaque identity string the authenticating frontend attaches to the
// upgrade request.
package identity

import (
	"errors"
	"net/http"
)

// ErrNoIdentity indicates the upgrade request carried no identity.
var ErrNoIdentity = errors.New("no identity on request")

// Resolver derives the owner identity for a new connection.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// RequestResolver reads the identity from a query parameter, falling back
// to a header. Suitable behind a reverse proxy that authenticates requests
// and stamps the identity on them.
type RequestResolver struct {
	QueryParam string
	Header     string
}

// NewRequestResolver creates a RequestResolver with the default sources
// (?user=... or the X-Username header).
func NewRequestResolver() *RequestResolver {
	return &RequestResolver{
		QueryParam: "user",
		Header:     "X-Username",
	}
}

var _ Resolver = (*RequestResolver)(nil)

// Resolve returns the identity on the request, or ErrNoIdentity.
func (rr *RequestResolver) Resolve(r *http.Request) (string, error) {
	if id := r.URL.Query().Get(rr.QueryParam); id != "" {
		return id, nil
	}
	if id := r.Header.Get(rr.Header); id != "" {
		return id, nil
	}
	return "", ErrNoIdentity
}
