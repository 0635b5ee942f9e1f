package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// Handler returns an http.Handler serving every route of s.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register mounts every route of the API and the HTML pages on r.
// The route table mirrors spec/openapi.yaml.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Post("/", s.CreateDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDocument)
			r.Put("/", s.RenameDocument)
			r.Delete("/", s.DeleteDocument)
			r.Get("/spec", s.GetDocumentSpec)
			r.Get("/tags", s.GetDocumentTags)
		})
	})
	r.Post("/sources/parse", s.ParseSource)

	r.Route("/settings/token", func(r chi.Router) {
		r.Get("/", s.GetToken)
		r.Put("/", s.PutToken)
		r.Delete("/", s.DeleteToken)
	})

	r.Get("/export", s.GetExport)
	r.Post("/import", s.PostImport)

	r.Get("/", s.IndexPage)
	r.Get("/view/{id}", s.ViewerPage)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/docs", s.DocsPage)
}

// paramError is a request parameter that failed to bind.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s parameter: %v", e.name, e.err)
}

func (e *paramError) Unwrap() error { return e.err }

// pathID binds the {id} path parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, &paramError{name: "id", err: err}
	}
	return id, nil
}

// queryInt binds an optional integer query parameter; nil when absent.
func queryInt(r *http.Request, name string) (*int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil, &paramError{name: name, err: err}
	}
	return v, nil
}

// queryString binds an optional string query parameter; "" when absent.
func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", &paramError{name: name, err: err}
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// queryBool binds an optional boolean query parameter; false when absent.
func queryBool(r *http.Request, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, &paramError{name: name, err: err}
	}
	return v != nil && *v, nil
}

// writeParamError answers 400 for a parameter that failed to bind.
func writeParamError(w http.ResponseWriter, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusBadRequest, requestBody(pe.Error()))
		return
	}
	writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
}
