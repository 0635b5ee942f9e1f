package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/spec"
)

func TestIndexPage(t *testing.T) {
	rec := do(newHTTPHandler(&mockDocumentServicer{}, nil), http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `id="documents"`)
}

func TestViewerPage_EmbedsDocumentAndEscapesName(t *testing.T) {
	doc := documentFixture()
	doc.Name = `<script>alert(1)</script>`
	svc := &mockDocumentServicer{
		getByID: func(context.Context, uuid.UUID) (domain.Document, error) { return doc, nil },
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/view/"+doc.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, doc.ID.String())
	assert.Contains(t, body, "swagger-ui-bundle.js")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestViewerPage_404(t *testing.T) {
	svc := &mockDocumentServicer{
		getByID: func(context.Context, uuid.UUID) (domain.Document, error) {
			return domain.Document{}, domain.ErrNotFound
		},
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/view/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOpenAPI(t *testing.T) {
	rec := do(newHTTPHandler(nil, nil), http.MethodGet, "/openapi.yaml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, spec.OpenAPI, rec.Body.Bytes())
}

func TestDocsPage(t *testing.T) {
	rec := do(newHTTPHandler(nil, nil), http.MethodGet, "/docs", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/openapi.yaml")
}
