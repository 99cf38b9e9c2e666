// Package normalize decides whether a raw wiki title is admissible as an
// article and canonicalizes it to a normalized Name.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// forbiddenPrefixes are namespace prefixes that, when followed by a colon,
// make a title inadmissible. Matches the mediawiki namespace list the
// pack's wikikit.go schema dump enumerates, restricted to the prefixes
// spec.md names.
var forbiddenPrefixes = []string{
	"File",
	"Discussion",
	"Image",
	"Category",
	"Wikipedia",
	"Portal",
	"Template",
	"Draft",
	"Module",
	"User",
	"Commons",
	"Wikt",
	"Book",
	"Mediawiki",
	"User talk",
}

var listPrefixes = []string{
	"List of",
	"Index of",
	"Table of",
}

// IsAdmissible reports whether a raw title (already trimmed of surrounding
// whitespace by the caller, or not — trimming is checked here too) may be
// admitted as an article or link target.
func IsAdmissible(title string) bool {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "\n\t") {
		return false
	}
	if strings.Contains(trimmed, "(disambiguation)") {
		return false
	}
	for _, prefix := range listPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	if strings.Contains(trimmed, ":") {
		for _, prefix := range forbiddenPrefixes {
			if strings.HasPrefix(trimmed, prefix+":") {
				return false
			}
		}
	}
	return true
}

// Normalize trims a raw title and capitalizes its first character, leaving
// the remainder byte-identical to the source. Applied to every title and
// every link target before any name comparison or lookup.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	return strings.ToUpper(string(first)) + trimmed[size:]
}
