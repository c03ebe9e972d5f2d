package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFileName checks the original file name and its extension against
// the configured allow-list.
func ValidateFileName(raw string, allowedExtensions []string) Validation[string] {
	nameValidation := ValidateGenericString(raw, "File name", 1, 255)
	if nameValidation.IsInvalid() {
		return nameValidation
	}
	ext := strings.ToLower(filepath.Ext(raw))
	if ext == "" {
		return Invalid[string]("Please include a file extension.")
	}
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return Valid(raw)
		}
	}
	return Invalid[string](fmt.Sprintf("%q files cannot be uploaded.", ext))
}
