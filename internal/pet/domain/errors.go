package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPetNotFound          = errors.New("pet not found")
	ErrAlreadyPurchased     = errors.New("pet already purchased")
	ErrUnsupportedMediaType = errors.New("only JPEG and PNG images are allowed")
	ErrPayloadTooLarge      = errors.New("file size too large, maximum size is 5MB")
	ErrEmptySearchTerm      = errors.New("search term is required")
)

// ValidationErrors maps a field name to its violation message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries field-level validation errors
// and returns them if so.
func IsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
