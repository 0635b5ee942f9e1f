package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/specdeck/internal/cache"
	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/repo"
)

// SettingsService manages the GitHub token slot.
// Any change to the token flushes the content cache, since cached content may
// have been fetched with different access.
type SettingsService struct {
	settings repo.SettingRepo
	cache    cache.Store
}

// NewSettingsService constructs a SettingsService. A nil store is allowed.
func NewSettingsService(r repo.SettingRepo, store cache.Store) *SettingsService {
	if store == nil {
		store = cache.Nop{}
	}
	return &SettingsService{settings: r, cache: store}
}

// Token returns the stored token, or "" when none is configured.
func (s *SettingsService) Token(ctx context.Context) (string, error) {
	tok, err := s.settings.Get(ctx, domain.SettingGitHubToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("service.SettingsService.Token: %w", err)
	}
	return tok, nil
}

// Status reports whether a token is configured without revealing it.
func (s *SettingsService) Status(ctx context.Context) (domain.TokenStatus, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return domain.TokenStatus{}, err
	}
	if tok == "" {
		return domain.TokenStatus{}, nil
	}
	return domain.TokenStatus{Configured: true, Hint: hint(tok)}, nil
}

// SetToken validates and stores token, replacing any previous one.
func (s *SettingsService) SetToken(ctx context.Context, token string) (domain.TokenStatus, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.TokenStatus{}, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	if strings.ContainsAny(token, " \t\r\n") {
		return domain.TokenStatus{}, fmt.Errorf("%w: token must not contain whitespace", domain.ErrValidation)
	}
	if err := s.settings.Set(ctx, domain.SettingGitHubToken, token); err != nil {
		return domain.TokenStatus{}, fmt.Errorf("service.SettingsService.SetToken: %w", err)
	}
	s.cache.Flush(ctx)
	return domain.TokenStatus{Configured: true, Hint: hint(token)}, nil
}

// ClearToken removes the stored token. Clearing an empty slot is not an error.
func (s *SettingsService) ClearToken(ctx context.Context) error {
	err := s.settings.Delete(ctx, domain.SettingGitHubToken)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("service.SettingsService.ClearToken: %w", err)
	}
	s.cache.Flush(ctx)
	return nil
}

// hint masks a token as "..." plus its last four characters. Tokens shorter
// than 12 characters get no hint.
func hint(token string) string {
	if len(token) < 12 {
		return ""
	}
	return "..." + token[len(token)-4:]
}
