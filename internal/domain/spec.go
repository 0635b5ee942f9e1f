package domain

// Spec is a parsed OpenAPI (3.x) or Swagger (2.0) document.
type Spec struct {
	// Format is "openapi" or "swagger".
	Format string
	// Version is the value of the openapi/swagger field, e.g. "3.0.3".
	Version    string
	Title      string
	APIVersion string
	Tags       []SpecTag

	// Raw holds the bytes exactly as fetched; JSON is the same document
	// converted for the renderer.
	Raw  []byte
	JSON []byte
}

// SpecTag is one entry in the viewer's side menu.
type SpecTag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Slug is the anchor used by the viewer, normalized like a URL slug.
	Slug       string `json:"slug"`
	Operations int    `json:"operations"`
}
