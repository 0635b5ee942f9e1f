package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/handler"
)

// mockDocumentServicer is a test double for handler.DocumentServicer.
// Set only the method fields your test needs.
type mockDocumentServicer struct {
	parseSource func(rawURL string) (domain.Source, error)
	add         func(ctx context.Context, rawURL, name string) (domain.Document, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Document, error)
	list        func(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error)
	rename      func(ctx context.Context, id uuid.UUID, name string) (domain.Document, error)
	remove      func(ctx context.Context, id uuid.UUID) error
	content     func(ctx context.Context, id uuid.UUID, refresh bool) (domain.Document, domain.Spec, error)
	export      func(ctx context.Context) ([]domain.Document, error)
	importFn    func(ctx context.Context, entries []domain.Document) (domain.ImportResult, error)
}

func (m *mockDocumentServicer) ParseSource(rawURL string) (domain.Source, error) {
	return m.parseSource(rawURL)
}
func (m *mockDocumentServicer) Add(ctx context.Context, rawURL, name string) (domain.Document, error) {
	return m.add(ctx, rawURL, name)
}
func (m *mockDocumentServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, id)
}
func (m *mockDocumentServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Document, int64, error) {
	return m.list(ctx, p)
}
func (m *mockDocumentServicer) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Document, error) {
	return m.rename(ctx, id, name)
}
func (m *mockDocumentServicer) Remove(ctx context.Context, id uuid.UUID) error {
	return m.remove(ctx, id)
}
func (m *mockDocumentServicer) Content(ctx context.Context, id uuid.UUID, refresh bool) (domain.Document, domain.Spec, error) {
	return m.content(ctx, id, refresh)
}
func (m *mockDocumentServicer) Export(ctx context.Context) ([]domain.Document, error) {
	return m.export(ctx)
}
func (m *mockDocumentServicer) Import(ctx context.Context, entries []domain.Document) (domain.ImportResult, error) {
	return m.importFn(ctx, entries)
}

// compile-time check: mockDocumentServicer must satisfy handler.DocumentServicer.
var _ handler.DocumentServicer = (*mockDocumentServicer)(nil)

// mockSettingsServicer is a test double for handler.SettingsServicer.
type mockSettingsServicer struct {
	status     func(ctx context.Context) (domain.TokenStatus, error)
	setToken   func(ctx context.Context, token string) (domain.TokenStatus, error)
	clearToken func(ctx context.Context) error
}

func (m *mockSettingsServicer) Status(ctx context.Context) (domain.TokenStatus, error) {
	return m.status(ctx)
}
func (m *mockSettingsServicer) SetToken(ctx context.Context, token string) (domain.TokenStatus, error) {
	return m.setToken(ctx, token)
}
func (m *mockSettingsServicer) ClearToken(ctx context.Context) error {
	return m.clearToken(ctx)
}

var _ handler.SettingsServicer = (*mockSettingsServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into the real router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(docs handler.DocumentServicer, settings handler.SettingsServicer) http.Handler {
	return handler.Handler(handler.NewServer(docs, settings, nil))
}

func documentFixture() domain.Document {
	src := domain.NewSource("acme", "petstore", "main", "api/openapi.yaml")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Document{
		ID:        uuid.New(),
		Label:     src.Label(),
		URL:       "https://github.com/acme/petstore/blob/main/api/openapi.yaml",
		Source:    src,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do runs one request through h and returns the recorder.
func do(h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func jsonBodyRaw(s string) *bytes.Buffer {
	return bytes.NewBufferString(s)
}
