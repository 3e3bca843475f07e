package transport

import (
	"net/http"
)

// Authenticator applies a credential to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth sends requests unauthenticated.
type NoAuth struct{}

// Apply implements Authenticator.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sends "Authorization: Bearer <token>".
type BearerAuth struct{}

// Apply implements Authenticator.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// HeaderAuth sends the token verbatim in a custom header.
type HeaderAuth struct {
	Header string
}

// Apply implements Authenticator.
func (a *HeaderAuth) Apply(req *http.Request, token string) {
	req.Header.Set(a.Header, token)
}

// AuthFor returns BearerAuth when a token is configured and NoAuth otherwise.
func AuthFor(token string) Authenticator {
	if token == "" {
		return &NoAuth{}
	}
	return &BearerAuth{}
}
