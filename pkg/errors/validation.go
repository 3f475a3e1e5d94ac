package errors

import (
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxNodeIDLength bounds node identifiers accepted from untrusted input.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier taken from a request path or
// query. Identifiers read from edge files are not checked here; the layout
// core only requires them to be non-empty.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateRunID validates a layout run identifier. Run ids are UUIDs.
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	return nil
}

// ValidateColumnName validates a header name used to locate the child or
// parent column of an edge file.
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a service URL and checks that its scheme is one of
// schemes, for example "redis" and "rediss" for a cache address.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	scheme, _, ok := strings.Cut(rawURL, "://")
	if !ok {
		return New(ErrCodeInvalidConfig, "URL %q has no scheme", rawURL)
	}
	if len(schemes) > 0 && !slices.Contains(schemes, scheme) {
		return New(ErrCodeInvalidConfig, "URL scheme %q not allowed (want one of %s)", scheme, strings.Join(schemes, ", "))
	}

	return nil
}
