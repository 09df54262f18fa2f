package errors

import (
	"strings"
	"unicode"
)

// maxSourceBytes caps the size of a single diagram source accepted over HTTP.
// Large pastes are almost always mistakes (binary uploads, whole documents).
const maxSourceBytes = 1 << 20 // 1 MiB

// ValidateSource validates a diagram source string for the HTTP path.
// The parser itself never fails, so this only rejects inputs that are
// clearly not diagram text: empty bodies, oversized payloads, null bytes.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return New(ErrCodeInvalidSource, "diagram source is empty")
	}
	if len(source) > maxSourceBytes {
		return New(ErrCodeInvalidSource, "diagram source too large (max %d bytes)", maxSourceBytes)
	}
	if strings.ContainsRune(source, '\x00') {
		return New(ErrCodeInvalidSource, "diagram source contains null bytes")
	}
	return nil
}

// ValidateDiagramName validates a user-supplied page/diagram name.
// Names end up as XML attribute values and file stems, so path separators
// and control characters are rejected.
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "diagram name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "diagram name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "diagram name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "diagram name cannot contain path separators")
	}
	return nil
}

// ValidateOutputPath validates a file path used for writing converted output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}
