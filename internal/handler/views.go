package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/pkordes/specdeck/spec"
)

// swaggerUIBase is where the viewer pages load swagger-ui from.
const swaggerUIBase = "https://unpkg.com/swagger-ui-dist@5"

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"index":  parsePage("index.html"),
	"viewer": parsePage("viewer.html"),
	"docs":   parsePage("docs.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type pageData struct {
	Title      string
	SwaggerUI  string
	DocumentID string
}

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.SwaggerUI = swaggerUIBase
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, page+".html", data); err != nil {
		s.log.ErrorContext(r.Context(), "render page", "page", page, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// IndexPage handles GET /. The page lists, adds, renames and removes
// documents through the JSON API.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index", pageData{Title: "Documents"})
}

// ViewerPage handles GET /view/{id}: a side menu of tags next to the
// interactive renderer.
func (s *Server) ViewerPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	doc, err := s.docs.GetByID(r.Context(), id)
	if err != nil {
		status, body := s.classify(err, "document not found")
		http.Error(w, body.Error.Message, status)
		return
	}
	s.render(w, r, http.StatusOK, "viewer", pageData{Title: doc.DisplayName(), DocumentID: doc.ID.String()})
}

// DocsPage handles GET /docs, the viewer for this service's own API.
func (s *Server) DocsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "docs", pageData{Title: "API"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
