// Package domain contains the core data types for specdeck.
// This package depends on nothing but uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Document is a registered link to an OpenAPI or Swagger file on GitHub.
// Name is the optional user-chosen name; Label is the fallback derived from
// the source path. URL is kept exactly as the user entered it.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns Name when the user set one, otherwise Label.
func (d Document) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Label
}
