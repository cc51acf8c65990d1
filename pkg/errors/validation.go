package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// projectNameRegex matches safe project names: they become file names and
// cache key segments, so only a conservative character set is allowed.
var projectNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateProjectName validates a project name for safety and correctness.
// Project names appear in file paths and cache keys, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateProjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidProject, "project name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project name contains control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidProject, "project name cannot contain path components")
	}
	if !projectNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProject, "invalid project name: %q", name)
	}
	return nil
}

// entityIDRegex matches safe entity identifiers.
var entityIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._:-]*$`)

// ValidateEntityID validates an entity identifier supplied by a client.
// IDs flow into layout output and cache keys verbatim.
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "entity id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "entity id too long (max 256 characters)")
	}
	if !entityIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid entity id: %q", id)
	}
	return nil
}
