package testutil

import (
	"regexp"
	"strings"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// NormalizeWhitespace collapses whitespace runs into single spaces, which
// keeps assertions independent of wrapping and padding.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
