package github

import "net/http"

// Authenticator applies the stored token to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth sends requests anonymously.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sends the token as "Authorization: Bearer <token>".
// Both classic and fine-grained personal access tokens accept this scheme.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (BearerAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
