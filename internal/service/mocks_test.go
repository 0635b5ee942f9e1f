package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/repo"
	"github.com/pkordes/specdeck/internal/service"
)

// mockDocumentRepo is a hand-written test double for repo.DocumentRepo.
// Each method is a function field; set only the ones your test needs.
type mockDocumentRepo struct {
	create    func(ctx context.Context, doc domain.Document) (domain.Document, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Document, error)
	getByKey  func(ctx context.Context, key string) (domain.Document, error)
	list      func(ctx context.Context) ([]domain.Document, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error)
	rename    func(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	return m.create(ctx, doc)
}
func (m *mockDocumentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, id)
}
func (m *mockDocumentRepo) GetByKey(ctx context.Context, key string) (domain.Document, error) {
	return m.getByKey(ctx, key)
}
func (m *mockDocumentRepo) List(ctx context.Context) ([]domain.Document, error) {
	return m.list(ctx)
}
func (m *mockDocumentRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockDocumentRepo) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	return m.rename(ctx, id, name)
}
func (m *mockDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockDocumentRepo must satisfy repo.DocumentRepo.
var _ repo.DocumentRepo = (*mockDocumentRepo)(nil)

// mockSettingRepo is a map-backed repo.SettingRepo.
type mockSettingRepo struct {
	values map[string]string
	err    error
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{values: map[string]string{}}
}

func (m *mockSettingRepo) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}
func (m *mockSettingRepo) Set(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}
func (m *mockSettingRepo) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.values[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.values, key)
	return nil
}

var _ repo.SettingRepo = (*mockSettingRepo)(nil)

// mockFetcher records every call and answers with fetch.
type mockFetcher struct {
	mu     sync.Mutex
	calls  []domain.Source
	tokens []string
	fetch  func(ctx context.Context, src domain.Source, token string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, src domain.Source, token string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, src)
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	return m.fetch(ctx, src, token)
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

var _ service.Fetcher = (*mockFetcher)(nil)

// staticToken is a service.TokenSource returning a fixed token.
type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

var _ service.TokenSource = staticToken("")

// recordingStore is a cache.Store that counts flushes and deletes.
type recordingStore struct {
	mu      sync.Mutex
	values  map[string][]byte
	deleted []string
	flushes int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string][]byte{}}
}

func (s *recordingStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
func (s *recordingStore) Set(_ context.Context, key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
func (s *recordingStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.deleted = append(s.deleted, key)
}
func (s *recordingStore) Flush(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string][]byte{}
	s.flushes++
}
