package spec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/specdeck/internal/openapi"
	"github.com/pkordes/specdeck/spec"
)

// TestOpenAPI_ParsesWithOwnParser makes sure the embedded document is one the
// viewer itself can display.
func TestOpenAPI_ParsesWithOwnParser(t *testing.T) {
	got, err := openapi.Parse(spec.OpenAPI)

	require.NoError(t, err)
	assert.Equal(t, "openapi", got.Format)
	assert.Equal(t, "specdeck API", got.Title)

	var names []string
	for _, tag := range got.Tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"health", "documents", "settings", "transfer"}, names)
}
