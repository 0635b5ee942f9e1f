package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/specdeck/internal/domain"
)

// SettingRepo persists string-keyed settings slots such as the GitHub token.
type SettingRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the slot is empty.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete clears the slot. Returns domain.ErrNotFound if it was already empty.
	Delete(ctx context.Context, key string) error
}

// pgSettingRepo is the Postgres implementation of SettingRepo.
type pgSettingRepo struct {
	db db
}

// NewSettingRepo constructs a SettingRepo backed by the provided db connection.
func NewSettingRepo(db db) SettingRepo {
	return &pgSettingRepo{db: db}
}

// Get reads one settings slot.
func (r *pgSettingRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM settings WHERE key = @key`

	var value string
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.SettingRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SettingRepo.Get: %w", err)
	}
	return value, nil
}

// Set upserts one settings slot.
func (r *pgSettingRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO settings (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value}); err != nil {
		return fmt.Errorf("repo.SettingRepo.Set: %w", err)
	}
	return nil
}

// Delete clears one settings slot.
func (r *pgSettingRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM settings WHERE key = @key`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key})
	if err != nil {
		return fmt.Errorf("repo.SettingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SettingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
