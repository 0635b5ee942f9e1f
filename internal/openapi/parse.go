// Package openapi decodes OpenAPI 3.x and Swagger 2.0 documents and extracts
// what the viewer needs: title, version and the tag list for the side menu.
package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/pkordes/specdeck/internal/domain"
)

// DefaultTag groups operations that declare no tags, matching swagger-ui.
const DefaultTag = "default"

// methods are the operation keys of a path item, in display order.
var methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// Parse decodes raw (YAML or JSON) into a domain.Spec.
// Returns domain.ErrInvalidSpec when raw is not a mapping or carries neither
// an "openapi" nor a "swagger" version field.
func Parse(raw []byte) (domain.Spec, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Spec{}, fmt.Errorf("%w: %v", domain.ErrInvalidSpec, err)
	}
	if doc == nil {
		return domain.Spec{}, fmt.Errorf("%w: document is empty", domain.ErrInvalidSpec)
	}

	spec := domain.Spec{Raw: raw}
	switch {
	case doc["openapi"] != nil:
		spec.Format = "openapi"
		spec.Version = scalar(doc["openapi"])
		if !strings.HasPrefix(spec.Version, "3.") {
			return domain.Spec{}, fmt.Errorf("%w: unsupported openapi version %q", domain.ErrInvalidSpec, spec.Version)
		}
	case doc["swagger"] != nil:
		spec.Format = "swagger"
		spec.Version = scalar(doc["swagger"])
		if spec.Version != "2.0" && spec.Version != "2" {
			return domain.Spec{}, fmt.Errorf("%w: unsupported swagger version %q", domain.ErrInvalidSpec, spec.Version)
		}
	default:
		return domain.Spec{}, fmt.Errorf("%w: neither an openapi nor a swagger field is present", domain.ErrInvalidSpec)
	}

	if info, ok := doc["info"].(map[string]any); ok {
		spec.Title = scalar(info["title"])
		spec.APIVersion = scalar(info["version"])
	}
	spec.Tags = extractTags(doc)

	js, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return domain.Spec{}, fmt.Errorf("%w: convert to json: %v", domain.ErrInvalidSpec, err)
	}
	spec.JSON = js

	return spec, nil
}

// extractTags returns the side-menu tags: declared tags first in declaration
// order, then tags only referenced by operations in first-seen order.
// Path keys are visited sorted so the result is deterministic.
// Tags without operations are left out.
func extractTags(doc map[string]any) []domain.SpecTag {
	counts := map[string]int{}
	var referenced []string

	paths, _ := doc["paths"].(map[string]any)
	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, p := range keys {
		item, ok := paths[p].(map[string]any)
		if !ok {
			continue
		}
		for _, m := range methods {
			op, ok := item[m].(map[string]any)
			if !ok {
				continue
			}
			names := operationTags(op)
			if len(names) == 0 {
				names = []string{DefaultTag}
			}
			for _, n := range names {
				if counts[n] == 0 {
					referenced = append(referenced, n)
				}
				counts[n]++
			}
		}
	}

	tags := []domain.SpecTag{}
	seen := map[string]bool{}

	declared, _ := doc["tags"].([]any)
	for _, d := range declared {
		m, ok := d.(map[string]any)
		if !ok {
			continue
		}
		name := scalar(m["name"])
		if name == "" || seen[name] || counts[name] == 0 {
			continue
		}
		seen[name] = true
		tags = append(tags, domain.SpecTag{
			Name:        name,
			Description: scalar(m["description"]),
			Slug:        Slugify(name),
			Operations:  counts[name],
		})
	}
	for _, name := range referenced {
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, domain.SpecTag{Name: name, Slug: Slugify(name), Operations: counts[name]})
	}
	return tags
}

// operationTags returns the non-empty string entries of op["tags"].
func operationTags(op map[string]any) []string {
	raw, _ := op["tags"].([]any)
	var out []string
	for _, t := range raw {
		if s := strings.TrimSpace(scalar(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// scalar renders a decoded YAML scalar as a string; non-scalars become "".
func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
