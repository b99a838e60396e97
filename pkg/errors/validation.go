package errors

import (
	"strings"
	"unicode"
)

// ValidateDocumentName validates a document name given on the command line.
// Names are joined onto the source and destination directories, so they may
// contain sub-directories but never control characters.
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}

	const maxNameLength = 500
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "document name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSuffix validates the document suffix used to select batch inputs.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return New(ErrCodeInvalidConfig, "document suffix cannot be empty")
	}
	if strings.ContainsAny(suffix, "/\\") {
		return New(ErrCodeInvalidConfig, "document suffix cannot contain path separators: %q", suffix)
	}
	return nil
}
