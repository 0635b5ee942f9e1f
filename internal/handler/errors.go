package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/github"
	"github.com/pkordes/specdeck/internal/service"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message meant for
// the person using the viewer.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	codeNotFound           = "not_found"
	codeValidation         = "validation_error"
	codeConflict           = "conflict"
	codeInvalidSpec        = "invalid_spec"
	codeRemoteNotFound     = "remote_not_found"
	codeRemoteUnauthorized = "remote_unauthorized"
	codeRemoteForbidden    = "remote_forbidden"
	codeRateLimited        = "rate_limited"
	codeRemote             = "remote_error"
	codeTooLarge           = "request_too_large"
	codeInternal           = "internal_error"
)

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "document not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeNotFound, Message: message}}
}

// requestBody returns an ErrorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: message}}
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and an ErrorResponse.
// notFound is the message used for domain.ErrNotFound.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status, body := s.classify(err, notFound)
	if status == http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func (s *Server) classify(err error, notFound string) (int, ErrorResponse) {
	detail := func(code, msg string) ErrorResponse {
		return ErrorResponse{Error: ErrorDetail{Code: code, Message: msg}}
	}

	var maxErr *http.MaxBytesError
	var apiErr *github.APIError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, notFoundBody(notFound)
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, detail(codeValidation, service.ValidationMessage(err))
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, detail(codeConflict, service.ValidationMessage(err))
	case errors.Is(err, domain.ErrInvalidSpec):
		return http.StatusUnprocessableEntity, detail(codeInvalidSpec,
			"the file is not an OpenAPI or Swagger document: "+service.ValidationMessage(err))
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, detail(codeTooLarge, "request body is too large")
	case errors.As(err, &apiErr):
		return remoteStatus(err), detail(remoteCode(err), apiErr.Message)
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway, detail(codeRemote, "GitHub request failed")
	default:
		return http.StatusInternalServerError, detail(codeInternal, "an unexpected error occurred")
	}
}

func remoteStatus(err error) int {
	if errors.Is(err, domain.ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

func remoteCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return codeRateLimited
	case errors.Is(err, domain.ErrRemoteNotFound):
		return codeRemoteNotFound
	case errors.Is(err, domain.ErrRemoteUnauthorized):
		return codeRemoteUnauthorized
	case errors.Is(err, domain.ErrRemoteForbidden):
		return codeRemoteForbidden
	default:
		return codeRemote
	}
}
