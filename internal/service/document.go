// Package service contains the business logic for specdeck.
// Services validate inputs, enforce business rules, and orchestrate repo,
// GitHub and cache calls. No SQL lives here; services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/specdeck/internal/cache"
	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/github"
	"github.com/pkordes/specdeck/internal/metrics"
	"github.com/pkordes/specdeck/internal/openapi"
	"github.com/pkordes/specdeck/internal/repo"
)

// maxNameLength bounds user-chosen document names, in runes.
const maxNameLength = 200

// Fetcher retrieves the raw bytes of a document from its source.
// *github.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, src domain.Source, token string) ([]byte, error)
}

// TokenSource returns the GitHub token to fetch with, or "" for anonymous access.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// DocumentService implements business logic for registered documents.
type DocumentService struct {
	repo    repo.DocumentRepo
	fetcher Fetcher
	tokens  TokenSource
	cache   cache.Store
	log     *slog.Logger

	// group coalesces concurrent fetches of the same source key.
	group singleflight.Group
}

// NewDocumentService constructs a DocumentService.
// A nil store disables caching; a nil logger falls back to slog.Default().
func NewDocumentService(r repo.DocumentRepo, f Fetcher, tokens TokenSource, store cache.Store, log *slog.Logger) *DocumentService {
	if store == nil {
		store = cache.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &DocumentService{repo: r, fetcher: f, tokens: tokens, cache: store, log: log}
}

// ParseSource normalizes a GitHub link without storing anything.
func (s *DocumentService) ParseSource(rawURL string) (domain.Source, error) {
	return github.ParseURL(rawURL)
}

// Add registers a new document for rawURL.
// name is optional; an empty name means the fallback label is displayed.
// Returns domain.ErrConflict when a document with the same source is already registered.
func (s *DocumentService) Add(ctx context.Context, rawURL, name string) (domain.Document, error) {
	rawURL = strings.TrimSpace(rawURL)
	src, err := github.ParseURL(rawURL)
	if err != nil {
		return domain.Document{}, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return domain.Document{}, err
	}

	existing, err := s.repo.GetByKey(ctx, src.Key)
	switch {
	case err == nil:
		return domain.Document{}, fmt.Errorf("%w: this document is already registered as %q", domain.ErrConflict, existing.DisplayName())
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Document{}, fmt.Errorf("service.DocumentService.Add: %w", err)
	}

	doc, err := s.repo.Create(ctx, domain.Document{
		Name:   name,
		Label:  src.Label(),
		URL:    rawURL,
		Source: src,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Document{}, fmt.Errorf("%w: this document is already registered", domain.ErrConflict)
		}
		return domain.Document{}, fmt.Errorf("service.DocumentService.Add: %w", err)
	}
	return doc, nil
}

// GetByID returns a single document.
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.GetByID: %w", err)
	}
	return doc, nil
}

// List returns one page of documents in the order they were added.
// The returned slice is never nil.
func (s *DocumentService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error) {
	docs, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, total, nil
}

// Rename changes the user-chosen name of one document. An empty name clears
// it so the fallback label is shown again.
func (s *DocumentService) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.Document{}, err
	}
	doc, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Rename: %w", err)
	}
	return doc, nil
}

// Remove deletes one document and drops its cached content.
func (s *DocumentService) Remove(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.DocumentService.Remove: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.DocumentService.Remove: %w", err)
	}
	s.cache.Delete(ctx, doc.Source.Key)
	return nil
}

// Content fetches and parses the document's spec.
//
// Cached content is served unless refresh is set. Concurrent callers asking
// for the same source share one GitHub round trip. Only content that parses
// is cached, so a broken document is fetched again on the next request.
func (s *DocumentService) Content(ctx context.Context, id uuid.UUID, refresh bool) (domain.Document, domain.Spec, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, domain.Spec{}, fmt.Errorf("service.DocumentService.Content: %w", err)
	}
	spec, err := s.load(ctx, doc.Source, refresh)
	if err != nil {
		return doc, domain.Spec{}, err
	}
	return doc, spec, nil
}

// Inspect fetches and parses the document behind rawURL without registering it.
// The content cache is neither read nor written.
func (s *DocumentService) Inspect(ctx context.Context, rawURL string) (domain.Source, domain.Spec, error) {
	src, err := github.ParseURL(rawURL)
	if err != nil {
		return domain.Source{}, domain.Spec{}, err
	}
	spec, err := s.fetch(ctx, src, false)
	if err != nil {
		return src, domain.Spec{}, err
	}
	return src, spec, nil
}

func (s *DocumentService) load(ctx context.Context, src domain.Source, refresh bool) (domain.Spec, error) {
	if !refresh {
		if raw, ok := s.cache.Get(ctx, src.Key); ok {
			if spec, err := openapi.Parse(raw); err == nil {
				metrics.ObserveCache(true)
				return spec, nil
			}
			s.cache.Delete(ctx, src.Key)
		}
		metrics.ObserveCache(false)
	}

	v, err, shared := s.group.Do(src.Key, func() (any, error) {
		// The fetch outlives a caller that gives up; others may be waiting on it.
		return s.fetch(context.WithoutCancel(ctx), src, true)
	})
	if err != nil {
		return domain.Spec{}, err
	}
	if shared {
		s.log.DebugContext(ctx, "fetch shared", slog.String("source", src.Key))
	}
	return v.(domain.Spec), nil
}

// fetch downloads and parses src. With cacheResult set, parsed content is cached
// unless the cache was flushed while the fetch was running.
func (s *DocumentService) fetch(ctx context.Context, src domain.Source, cacheResult bool) (domain.Spec, error) {
	gen, versioned := s.generation()
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return domain.Spec{}, fmt.Errorf("service.DocumentService.fetch: token: %w", err)
	}

	raw, err := s.fetcher.Fetch(ctx, src, token)
	if err != nil {
		s.log.WarnContext(ctx, "fetch failed",
			slog.String("source", src.Key),
			slog.Bool("token", token != ""),
			slog.String("error", err.Error()),
		)
		return domain.Spec{}, fmt.Errorf("service.DocumentService.fetch: %w", err)
	}

	spec, err := openapi.Parse(raw)
	if err != nil {
		s.log.InfoContext(ctx, "fetched content is not a spec",
			slog.String("source", src.Key),
			slog.String("error", err.Error()),
		)
		return domain.Spec{}, err
	}

	if cacheResult {
		s.storeContent(ctx, src.Key, raw, gen, versioned)
	}
	s.log.InfoContext(ctx, "fetched spec",
		slog.String("source", src.Key),
		slog.String("title", spec.Title),
		slog.Int("bytes", len(raw)),
		slog.Int("tags", len(spec.Tags)),
	)
	return spec, nil
}

// generation snapshots the cache generation when the store tracks one.
func (s *DocumentService) generation() (uint64, *cache.Versioned) {
	v, ok := s.cache.(*cache.Versioned)
	if !ok {
		return 0, nil
	}
	return v.Generation(), v
}

func (s *DocumentService) storeContent(ctx context.Context, key string, raw []byte, gen uint64, v *cache.Versioned) {
	if v == nil {
		s.cache.Set(ctx, key, raw)
		return
	}
	if !v.SetIfGeneration(ctx, gen, key, raw) {
		s.log.InfoContext(ctx, "cache flushed during fetch, result not cached", slog.String("source", key))
	}
}

// normalizeName trims name and enforces the length limit.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", domain.ErrValidation, maxNameLength)
	}
	return name, nil
}
