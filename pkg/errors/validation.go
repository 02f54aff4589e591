package errors

import (
	"strings"
	"unicode"
)

const (
	maxIdentifierLength = 128
	maxLabelLength      = 256
)

// ValidateIdentifier validates an entity identifier supplied by a caller.
// Identifiers end up in upstream URLs and queries, so the rules are
// conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No whitespace, quotes, angle brackets or path separators
//   - Maximum length of 128 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIdentifierLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "identifier contains whitespace or control characters")
		}
	}
	if strings.ContainsAny(id, "\"'<>/\\{}") {
		return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", id)
	}
	return nil
}

// ValidateLabel validates a display label. Labels are free text but must be
// printable and bounded, since some providers query by label.
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "label contains control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
