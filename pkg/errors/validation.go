package errors

import (
	"strings"
	"unicode"
)

// maxNodeIDLength bounds row keys accepted at the ingestion boundary.
const maxNodeIDLength = 256

// ValidateNodeID rejects row ids that are empty, longer than 256 bytes, or
// contain control characters. The empty string is reserved for "no parent".
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRecord, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidRecord, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "node id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateFieldKey validates the name of a document field used to read ids,
// parent ids or children (for example "key" or "parent_id").
func ValidateFieldKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return New(ErrCodeInvalidInput, "field key cannot be empty")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "field key %q contains whitespace or control characters", key)
		}
	}
	return nil
}

// ValidatePath checks a file path from the command line or a config file.
func ValidatePath(path string) error {
	const maxPathLength = 4096
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path contains control characters")
	}
	return nil
}
