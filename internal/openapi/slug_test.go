package openapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/specdeck/internal/openapi"
)

func TestSlugify(t *testing.T) {
	for in, want := range map[string]string{
		"pets":              "pets",
		"Rocky Mountains":   "rocky-mountains",
		"WALMART":           "walmart",
		"Rocky  Mountains!": "rocky-mountains",
		"  leading/trail  ": "leading-trail",
		"!!! ---":           "",
		"v2 API":            "v2-api",
	} {
		assert.Equal(t, want, openapi.Slugify(in), "Slugify(%q)", in)
	}
}
