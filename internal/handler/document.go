package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/specdeck/internal/domain"
)

// decodeBody decodes a JSON request body into dst. It writes the error
// response itself and returns false when decoding fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{Code: codeTooLarge, Message: "request body is too large"}})
			return false
		}
		writeJSON(w, http.StatusBadRequest, requestBody("request body must be valid JSON"))
		return false
	}
	return true
}

// ListDocuments handles GET /documents.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeParamError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeParamError(w, err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	docs, total, err := s.docs.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	data := make([]Document, len(docs))
	for i, d := range docs {
		data[i] = documentToResponse(d)
	}
	writeJSON(w, http.StatusOK, DocumentList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// CreateDocument handles POST /documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body CreateDocumentRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: "url is required"}})
		return
	}

	created, err := s.docs.Add(r.Context(), body.URL, body.Name)
	if err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}
	w.Header().Set("Location", "/documents/"+created.ID.String())
	writeJSON(w, http.StatusCreated, documentToResponse(created))
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	doc, err := s.docs.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// RenameDocument handles PUT /documents/{id}.
// An empty name clears the user-chosen name.
func (s *Server) RenameDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	var body RenameDocumentRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Name == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: "name is required; send an empty string to clear it"}})
		return
	}

	doc, err := s.docs.Rename(r.Context(), id, *body.Name)
	if err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeParamError(w, err)
		return
	}
	if err := s.docs.Remove(r.Context(), id); err != nil {
		s.writeError(w, r, err, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ParseSource handles POST /sources/parse. Nothing is stored.
func (s *Server) ParseSource(w http.ResponseWriter, r *http.Request) {
	var body ParseSourceRequest
	if !decodeBody(w, r, &body) {
		return
	}
	src, err := s.docs.ParseSource(body.URL)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ParsedSource{Source: sourceToResponse(src), Label: src.Label()})
}
