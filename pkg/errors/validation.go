package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and class identifiers read from input files.
const maxIDLength = 1024

// ValidateID validates a node or class identifier read from an input graph.
//
// Validation rules:
//   - No empty identifiers
//   - Maximum length of 1024 bytes
//   - No control characters or null bytes
//
// kind names the identifier in the error message, e.g. "node" or "class".
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "%s ID cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidGraph, "%s ID too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "%s ID %q contains invalid control characters", kind, id)
		}
	}

	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL uses one of the given schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %v", schemes)
}
