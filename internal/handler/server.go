// Package handler implements the HTTP handlers for the specdeck API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, document.go, etc.) but share the same Server struct so
// they can access its dependencies. Routes are registered in routes.go.
package handler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/specdeck/internal/domain"
)

// DocumentServicer defines the business operations the document handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or GitHub.
type DocumentServicer interface {
	ParseSource(rawURL string) (domain.Source, error)
	Add(ctx context.Context, rawURL, name string) (domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Content(ctx context.Context, id uuid.UUID, refresh bool) (domain.Document, domain.Spec, error)
	Export(ctx context.Context) ([]domain.Document, error)
	Import(ctx context.Context, entries []domain.Document) (domain.ImportResult, error)
}

// SettingsServicer defines the token operations the settings handlers depend on.
type SettingsServicer interface {
	Status(ctx context.Context) (domain.TokenStatus, error)
	SetToken(ctx context.Context, token string) (domain.TokenStatus, error)
	ClearToken(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	docs     DocumentServicer
	settings SettingsServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(docs DocumentServicer, settings SettingsServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{docs: docs, settings: settings, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}
