package handler

import (
	"bytes"
	"net/http"

	"github.com/pkordes/specdeck/internal/domain"
)

// GetDocumentSpec handles GET /documents/{id}/spec.
//
// ?format=yaml (default) returns the bytes exactly as fetched; ?format=json
// returns the document converted to JSON for the renderer. ?refresh=true
// bypasses the content cache.
func (s *Server) GetDocumentSpec(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	format, err := queryString(r, "format")
	if err != nil {
		writeParamError(w, err)
		return
	}
	if format != "" && format != "yaml" && format != "json" {
		writeJSON(w, http.StatusBadRequest, requestBody("format must be yaml or json"))
		return
	}
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		writeParamError(w, err)
		return
	}

	doc, spec, err := s.docs.Content(r.Context(), id, refresh)
	if err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Document-Id", doc.ID.String())
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(spec.JSON)
		return
	}
	w.Header().Set("Content-Type", rawContentType(spec))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.Raw)
}

// GetDocumentTags handles GET /documents/{id}/tags.
// It returns what the viewer's side menu needs: the title and the tag list.
func (s *Server) GetDocumentTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	refresh, err := queryBool(r, "refresh")
	if err != nil {
		writeParamError(w, err)
		return
	}

	doc, spec, err := s.docs.Content(r.Context(), id, refresh)
	if err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, DocumentTags{
		DocumentID:  doc.ID,
		DisplayName: doc.DisplayName(),
		Title:       spec.Title,
		APIVersion:  spec.APIVersion,
		Format:      spec.Format,
		Version:     spec.Version,
		Tags:        tagsToResponse(spec.Tags),
	})
}

// rawContentType guesses the media type of the fetched bytes.
func rawContentType(spec domain.Spec) string {
	trimmed := bytes.TrimSpace(spec.Raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return "application/json"
	}
	return "application/yaml"
}
