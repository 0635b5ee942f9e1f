package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. an unparseable GitHub link, an empty token).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a document with the same dedup key is already
// registered. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidSpec is returned when fetched content is not an OpenAPI or
// Swagger document.
var ErrInvalidSpec = errors.New("invalid spec")

// Remote errors classify failures reported by GitHub.
// Handlers map them to 502 (or 429 for rate limiting) with the remote message.
var (
	ErrRemoteNotFound     = errors.New("remote not found")
	ErrRemoteUnauthorized = errors.New("remote unauthorized")
	ErrRemoteForbidden    = errors.New("remote forbidden")
	ErrRateLimited        = errors.New("rate limited")
	ErrRemote             = errors.New("remote error")
)
