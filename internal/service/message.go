package service

import (
	"errors"
	"strings"

	"github.com/pkordes/specdeck/internal/domain"
)

// ValidationMessage extracts the human-readable part of an error wrapping a
// domain sentinel, dropping the "pkg.Type.Method: " prefixes and the
// sentinel's own text.
// e.g. "service.DocumentService.Add: validation error: url is required" -> "url is required"
func ValidationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrConflict, domain.ErrInvalidSpec, domain.ErrNotFound} {
		if !errors.Is(err, sentinel) {
			continue
		}
		marker := sentinel.Error() + ": "
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	return msg
}
