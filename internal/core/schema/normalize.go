package schema

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text, composes it to NFC and collapses whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(text))), " ")
}

// TrimColon drops trailing colons and the whitespace before them.
func TrimColon(text string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(text), ":"))
}
