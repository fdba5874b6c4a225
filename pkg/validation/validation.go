package validation

import "strings"

// SanitizeString trims whitespace and removes null bytes.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}

// ValidateAmount reports whether an enrollment amount is usable. Zero means
// the field was absent from the request.
func ValidateAmount(amount float64) bool {
	return amount > 0
}
