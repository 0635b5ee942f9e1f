package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"time"

	"github.com/pkordes/specdeck/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "name", "label", "url",
	"owner", "repo", "ref", "path",
	"created_at", "updated_at",
}

// GetExport handles GET /export.
// It returns every registered document in the order it was added.
// Use ?format=csv to receive CSV; default is JSON, which POST /import accepts.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format, err := queryString(r, "format")
	if err != nil {
		writeParamError(w, err)
		return
	}
	if format != "" && format != "json" && format != "csv" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be json or csv"))
		return
	}

	docs, err := s.docs.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	if format == "csv" {
		buf := buildCSV(docs)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="specdeck.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = documentToResponse(d)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="specdeck.json"`)
	writeJSON(w, http.StatusOK, out)
}

// buildCSV encodes documents as CSV, one row per document.
func buildCSV(docs []domain.Document) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, d := range docs {
		//nolint:errcheck
		w.Write(documentToCSVRecord(d))
	}
	w.Flush()
	return &buf
}

// documentToCSVRecord encodes a document as a flat string slice.
func documentToCSVRecord(d domain.Document) []string {
	return []string{
		d.ID.String(),
		d.Name,
		d.Label,
		d.URL,
		d.Source.Owner,
		d.Source.Repo,
		d.Source.Ref,
		d.Source.Path,
		d.CreatedAt.UTC().Format(time.RFC3339),
		d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// PostImport handles POST /import. The body is a JSON array of entries with
// at least a url; GET /export output is accepted unchanged.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	var body []ImportEntry
	if !decodeBody(w, r, &body) {
		return
	}

	entries := make([]domain.Document, len(body))
	for i, e := range body {
		entries[i] = domain.Document{URL: e.URL, Name: e.Name}
	}

	res, err := s.docs.Import(r.Context(), entries)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	failed := res.Failed
	if failed == nil {
		failed = []string{}
	}
	writeJSON(w, http.StatusOK, ImportResult{Imported: res.Imported, Skipped: res.Skipped, Failed: failed})
}
