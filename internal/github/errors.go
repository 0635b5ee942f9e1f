package github

import (
	"fmt"
	"net/http"

	"github.com/pkordes/specdeck/internal/domain"
)

// APIError is a failed GitHub call. Message is written for the end user and
// is what the viewer shows next to the retry button.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	// RateLimited is set when a 403 carried X-RateLimit-Remaining: 0.
	RateLimited bool
	Err         error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps the status code onto the domain sentinels so callers can use
// errors.Is without knowing about this type.
func (e *APIError) Is(target error) bool {
	if target == domain.ErrRemote {
		return true
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == domain.ErrRemoteUnauthorized
	case http.StatusForbidden:
		if e.RateLimited {
			return target == domain.ErrRateLimited
		}
		return target == domain.ErrRemoteForbidden
	case http.StatusTooManyRequests:
		return target == domain.ErrRateLimited
	case http.StatusNotFound:
		return target == domain.ErrRemoteNotFound
	}
	return false
}
