package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ValidateScheduleID validates a schedule identifier for safety and
// correctness. Schedule IDs become filenames in the file store and document
// IDs in MongoDB, so anything that could escape a directory is rejected.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateScheduleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "schedule id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "schedule id too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "schedule id contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "schedule id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path for safety.
// It prevents null-byte injection and enforces a reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
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
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}

	return nil
}

// ValidateZone validates an IANA time-zone name by attempting to load it.
// The empty string is valid and means "use the source's zone".
func ValidateZone(name string) error {
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return Wrap(ErrCodeInvalidZone, err, "unknown time zone %q", name)
	}
	return nil
}

// eventIDRegex matches identifiers acceptable as event IDs: UUIDs, ICS UIDs
// and plain slugs. Anything printable short of separators and quotes.
var eventIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9@._:+-]*$`)

// ValidateEventID validates an event identifier.
func ValidateEventID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInterval, "event id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInterval, "event id too long (max 256 characters)")
	}

	if !eventIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInterval, "invalid event id: %q", id)
	}

	return nil
}

// ValidateHourWindow validates a business-hours window given as start and end
// hours of the civil day. The window is half-open [start,end).
func ValidateHourWindow(start, end int) error {
	if start < 0 || start > 23 {
		return New(ErrCodeInvalidGeometry, "window start hour %d out of range [0,23]", start)
	}
	if end < 1 || end > 24 {
		return New(ErrCodeInvalidGeometry, "window end hour %d out of range [1,24]", end)
	}
	if start >= end {
		return New(ErrCodeInvalidGeometry, "window start hour %d must precede end hour %d", start, end)
	}
	return nil
}
