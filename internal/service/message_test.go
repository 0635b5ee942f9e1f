package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/specdeck/internal/domain"
	"github.com/pkordes/specdeck/internal/service"
)

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"bare", fmt.Errorf("%w: url is required", domain.ErrValidation), "url is required"},
		{"wrapped", fmt.Errorf("service.DocumentService.Add: %w", fmt.Errorf("%w: url is required", domain.ErrValidation)), "url is required"},
		{"conflict", fmt.Errorf("%w: already registered as %q", domain.ErrConflict, "Pets"), `already registered as "Pets"`},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ValidationMessage(tt.err))
		})
	}
}
