package github

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	NoAuth{}.Apply(req, "token")

	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	BearerAuth{}.Apply(req, "token")

	assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
}

func TestBearerAuth_EmptyToken(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	BearerAuth{}.Apply(req, "")

	assert.Empty(t, req.Header.Get("Authorization"))
}
