package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/specdeck/internal/domain"
)

// DocumentRepo defines the persistence operations for registered documents.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type DocumentRepo interface {
	// Create inserts a new document and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrConflict if a document with the same source key exists.
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)

	// GetByID retrieves a single document by its UUID primary key.
	// Returns domain.ErrNotFound if no document with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error)

	// GetByKey retrieves the document registered under a source dedup key.
	// Returns domain.ErrNotFound if the key is free.
	GetByKey(ctx context.Context, key string) (domain.Document, error)

	// List returns every document in the order it was added.
	List(ctx context.Context) ([]domain.Document, error)

	// ListPaged returns one page of documents in the order they were added,
	// together with the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error)

	// Rename sets the user-chosen name of one document ("" clears it) and
	// returns the updated record. Returns domain.ErrNotFound if it does not exist.
	Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)

	// Delete removes a document by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgDocumentRepo is the Postgres implementation of DocumentRepo.
type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, name, label, url, owner, repo, ref, path, source_key, created_at, updated_at`

// Create inserts a new document row and returns the full persisted record.
func (r *pgDocumentRepo) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	const q = `
		INSERT INTO documents (name, label, url, owner, repo, ref, path, source_key)
		VALUES (@name, @label, @url, @owner, @repo, @ref, @path, @source_key)
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"name":       doc.Name,
		"label":      doc.Label,
		"url":        doc.URL,
		"owner":      doc.Source.Owner,
		"repo":       doc.Source.Repo,
		"ref":        doc.Source.Ref,
		"path":       doc.Source.Path,
		"source_key": doc.Source.Key,
	}

	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", domain.ErrConflict)
		}
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a document by primary key.
func (r *pgDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = @id`

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByKey retrieves a document by its unique source key.
func (r *pgDocumentRepo) GetByKey(ctx context.Context, key string) (domain.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE source_key = @key`

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByKey: %w", err)
	}
	return result, nil
}

// List returns all documents ordered by created_at ascending.
func (r *pgDocumentRepo) List(ctx context.Context) ([]domain.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.List: %w", err)
	}
	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.List: %w", err)
	}
	return docs, nil
}

// ListPaged returns one page of documents and the total row count.
// The count uses a window function so both come back in one round trip.
func (r *pgDocumentRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error) {
	const q = `
		SELECT ` + documentColumns + `, count(*) OVER () AS total
		FROM documents
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	var total int64
	for rows.Next() {
		var (
			d  domain.Document
			id pgtype.UUID
		)
		err := rows.Scan(&id, &d.Name, &d.Label, &d.URL,
			&d.Source.Owner, &d.Source.Repo, &d.Source.Ref, &d.Source.Path, &d.Source.Key,
			&d.CreatedAt, &d.UpdatedAt, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.DocumentRepo.ListPaged: scan: %w", err)
		}
		d.ID = uuid.UUID(id.Bytes)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.DocumentRepo.ListPaged: rows: %w", err)
	}

	// An out-of-range page returns no rows and therefore no window count.
	if len(docs) == 0 && p.Page > 1 {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.DocumentRepo.ListPaged: count: %w", err)
		}
	}
	return docs, total, nil
}

// Rename updates the name of exactly one document.
func (r *pgDocumentRepo) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	const q = `
		UPDATE documents
		SET name       = @name,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + documentColumns

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "name": name}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Rename: %w", err)
	}
	return result, nil
}

// Delete removes a document by primary key.
func (r *pgDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM documents WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// collectDocuments drains rows into a non-nil slice and closes them.
func collectDocuments(rows pgx.Rows) ([]domain.Document, error) {
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return docs, nil
}

// scanDocument maps a single database row into a domain.Document.
func scanDocument(s scanner) (domain.Document, error) {
	var (
		d  domain.Document
		id pgtype.UUID
	)
	err := s.Scan(&id, &d.Name, &d.Label, &d.URL,
		&d.Source.Owner, &d.Source.Repo, &d.Source.Ref, &d.Source.Path, &d.Source.Key,
		&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
