package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/specdeck/internal/domain"
)

// Export returns every stored document in the order it was added, in the
// same shape it is persisted in.
func (s *DocumentService) Export(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.Export: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Import registers each entry's URL and name. Entries that are already
// registered are skipped; entries that fail validation are reported in
// Failed and do not stop the import. Any other error aborts it.
func (s *DocumentService) Import(ctx context.Context, entries []domain.Document) (domain.ImportResult, error) {
	res := domain.ImportResult{Failed: []string{}}
	for i, e := range entries {
		_, err := s.Add(ctx, e.URL, e.Name)
		switch {
		case err == nil:
			res.Imported++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
		case errors.Is(err, domain.ErrValidation):
			res.Failed = append(res.Failed, fmt.Sprintf("entry %d: %s", i+1, ValidationMessage(err)))
		default:
			return res, fmt.Errorf("service.DocumentService.Import: %w", err)
		}
	}
	return res, nil
}
