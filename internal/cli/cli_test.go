package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/specdeck/internal/cli"
	"github.com/pkordes/specdeck/internal/domain"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.2.0
tags:
  - name: pets
    description: Everything about pets
paths:
  /pets:
    get:
      tags: [pets]
    post:
      tags: [pets]
  /health:
    get: {}
`

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_URL", "")
	t.Setenv("GITHUB_TIMEOUT", "")
	t.Setenv("SPECDECK_OUTPUT", "")

	root := cli.NewRootCommand(viper.New())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// fakeGitHub serves petstoreYAML for acme/petstore at main and records the
// Authorization header.
func fakeGitHub(t *testing.T, gotAuth *string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/petstore/contents/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		_, _ = w.Write([]byte(petstoreYAML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestParse_Text(t *testing.T) {
	out, err := run(t, "parse", "https://github.com/acme/petstore/blob/main/api/openapi.yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "owner  acme")
	assert.Contains(t, out, "key    acme/petstore/main/api/openapi.yaml")
	assert.Contains(t, out, "label  petstore/openapi.yaml")
}

func TestParse_JSON(t *testing.T) {
	out, err := run(t, "parse", "-o", "json", "https://raw.githubusercontent.com/Acme/PetStore/v2/spec.json")

	require.NoError(t, err)
	var src domain.Source
	require.NoError(t, json.Unmarshal([]byte(out), &src))
	assert.Equal(t, domain.NewSource("Acme", "PetStore", "v2", "spec.json"), src)
}

func TestParse_Invalid(t *testing.T) {
	_, err := run(t, "parse", "https://github.com/acme/petstore/tree/main")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParse_RequiresOneArg(t *testing.T) {
	_, err := run(t, "parse")

	assert.Error(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "parse", "-o", "xml", "https://github.com/acme/petstore/blob/main/openapi.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestFetch_WritesRawContentAndSendsToken(t *testing.T) {
	var auth string
	srv := fakeGitHub(t, &auth)

	out, err := run(t, "fetch", "--api-url", srv.URL, "--token", "ghp_cli",
		"https://github.com/acme/petstore/blob/main/openapi.yaml")

	require.NoError(t, err)
	assert.Equal(t, petstoreYAML, out)
	assert.Equal(t, "Bearer ghp_cli", auth)
}

func TestFetch_RemoteNotFound(t *testing.T) {
	srv := fakeGitHub(t, nil)

	_, err := run(t, "fetch", "--api-url", srv.URL,
		"https://github.com/acme/petstore/blob/main/missing.yaml")

	assert.ErrorIs(t, err, domain.ErrRemoteNotFound)
}

func TestTags_Text(t *testing.T) {
	srv := fakeGitHub(t, nil)

	out, err := run(t, "tags", "--api-url", srv.URL,
		"https://github.com/acme/petstore/blob/main/openapi.yaml")

	require.NoError(t, err)
	assert.Contains(t, out, "Petstore 1.2.0 (openapi 3.0.3)")
	assert.Contains(t, out, "pets")
	assert.Contains(t, out, "Everything about pets")
	assert.Contains(t, out, "default")
}

func TestTags_JSON(t *testing.T) {
	srv := fakeGitHub(t, nil)

	out, err := run(t, "tags", "-o", "json", "--api-url", srv.URL,
		"https://github.com/acme/petstore/blob/main/openapi.yaml")

	require.NoError(t, err)
	var got struct {
		Title string           `json:"title"`
		Tags  []domain.SpecTag `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Petstore", got.Title)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "pets", got.Tags[0].Name)
	assert.Equal(t, 2, got.Tags[0].Operations)
	assert.Equal(t, "default", got.Tags[1].Name)
	assert.Equal(t, 1, got.Tags[1].Operations)
}

func TestTags_RemoteNotFound(t *testing.T) {
	srv := fakeGitHub(t, nil)

	_, err := run(t, "tags", "--api-url", srv.URL,
		"https://github.com/acme/petstore/blob/main/missing.yaml")

	assert.ErrorIs(t, err, domain.ErrRemoteNotFound)
}
