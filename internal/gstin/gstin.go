// Package gstin recognises GST identification numbers in free text.
//
// A GSTIN is 15 characters: a two-digit state code, a ten-character PAN
// (five letters, four digits, one letter), an entity number, the literal
// "Z" and a check character.
package gstin

import (
	"regexp"
	"strings"
)

// Length is the number of characters in a GSTIN.
const Length = 15

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)
	leadingDigits   = regexp.MustCompile(`^[0-9]{2}`)
	embedded        = regexp.MustCompile(`(?i)[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]`)
	strict          = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// Extract returns the candidate identifier found in text and whether one was found.
//
// Text that collapses to exactly 15 alphanumerics starting with two digits is
// returned whole; this is deliberately looser than Valid so a mistyped number
// reaches validation and earns a format error instead of the help text.
// Otherwise the first embedded substring matching the positional grammar is used.
func Extract(text string) (string, bool) {
	cleaned := strings.ToUpper(nonAlphanumeric.ReplaceAllString(text, ""))
	if len(cleaned) == Length && leadingDigits.MatchString(cleaned) {
		return cleaned, true
	}

	if match := embedded.FindString(text); match != "" {
		return strings.ToUpper(match), true
	}

	return "", false
}

// Valid reports whether candidate is exactly a well-formed uppercase GSTIN.
func Valid(candidate string) bool {
	return strict.MatchString(candidate)
}

// StateCode returns the two-digit state prefix, or "" when id is too short.
func StateCode(id string) string {
	if len(id) < 2 {
		return ""
	}
	return id[:2]
}
