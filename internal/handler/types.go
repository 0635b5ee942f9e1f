package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/specdeck/internal/domain"
)

// Source is the normalized GitHub location of a document.
type Source struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Ref   string `json:"ref"`
	Path  string `json:"path"`
	Key   string `json:"key"`
}

// Document is the JSON representation of a registered document.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Name        *string   `json:"name,omitempty"`
	Label       string    `json:"label"`
	DisplayName string    `json:"display_name"`
	URL         string    `json:"url"`
	Source      Source    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// DocumentList is the body of GET /documents.
type DocumentList struct {
	Data       []Document `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateDocumentRequest is the body of POST /documents.
type CreateDocumentRequest struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// RenameDocumentRequest is the body of PUT /documents/{id}.
type RenameDocumentRequest struct {
	Name *string `json:"name"`
}

// ParseSourceRequest is the body of POST /sources/parse.
type ParseSourceRequest struct {
	URL string `json:"url"`
}

// ParsedSource is the body returned by POST /sources/parse.
type ParsedSource struct {
	Source Source `json:"source"`
	Label  string `json:"label"`
}

// Tag is one side-menu entry.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug"`
	Operations  int    `json:"operations"`
}

// DocumentTags is the body of GET /documents/{id}/tags.
type DocumentTags struct {
	DocumentID  uuid.UUID `json:"document_id"`
	DisplayName string    `json:"display_name"`
	Title       string    `json:"title"`
	APIVersion  string    `json:"api_version,omitempty"`
	Format      string    `json:"format"`
	Version     string    `json:"version"`
	Tags        []Tag     `json:"tags"`
}

// TokenStatus is the body of GET/PUT /settings/token. The token itself is
// never returned.
type TokenStatus struct {
	Configured bool   `json:"configured"`
	Hint       string `json:"hint,omitempty"`
}

// SetTokenRequest is the body of PUT /settings/token.
type SetTokenRequest struct {
	Token string `json:"token"`
}

// ImportEntry is one element of the POST /import body. Export output is
// accepted as is; fields other than url and name are ignored.
type ImportEntry struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// ImportResult is the body returned by POST /import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   []string `json:"failed"`
}

func sourceToResponse(s domain.Source) Source {
	return Source{Owner: s.Owner, Repo: s.Repo, Ref: s.Ref, Path: s.Path, Key: s.Key}
}

// documentToResponse maps a domain.Document to its JSON representation.
// An empty name becomes an absent field.
func documentToResponse(d domain.Document) Document {
	out := Document{
		ID:          d.ID,
		Label:       d.Label,
		DisplayName: d.DisplayName(),
		URL:         d.URL,
		Source:      sourceToResponse(d.Source),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Name != "" {
		name := d.Name
		out.Name = &name
	}
	return out
}

func tagsToResponse(tags []domain.SpecTag) []Tag {
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = Tag{Name: t.Name, Description: t.Description, Slug: t.Slug, Operations: t.Operations}
	}
	return out
}
