// Package links extracts outgoing link target names from a wiki-markup
// page body, grounded in kapok's regex-based [[link]]/{{Category:x}}
// extraction, generalized to the four extractor families spec.md §4.2
// requires.
package links

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ldobbelsteen/wikigraph/internal/normalize"
)

// wikiLinkPattern matches [[...]] constructs, capturing the inner text.
// The negative lookbehind for "=" that spec.md describes (excluding
// section-level syntax) isn't expressible in Go's RE2 regexp, so it's
// applied as a post-match check against the byte preceding the match.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]]*)\]\]`)

var mainArticlePattern = regexp.MustCompile(`(?i)\{\{\s*main article\s*\|\s*([^}|]*)`)

var seeAlsoPattern = regexp.MustCompile(`(?i)\{\{\s*see also\s*\|([^}]*)\}\}`)

var infoboxPattern = regexp.MustCompile(`(?is)\{\{Infobox.*?\n\}\}`)

// Extract returns the sorted, de-duplicated list of normalized link target
// names found in a page body. Targets are not checked for admissibility.
func Extract(body string) []string {
	candidates := make([]string, 0, 16)

	candidates = append(candidates, extractWikiLinks(body)...)
	candidates = append(candidates, extractMainArticle(body)...)
	candidates = append(candidates, extractSeeAlso(body)...)

	seen := make(map[string]struct{}, len(candidates))
	result := make([]string, 0, len(candidates))
	for _, raw := range candidates {
		name := postProcess(raw)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// extractWikiLinks extracts [[...]] targets from the portion of the body
// after any Infobox block, skipping matches immediately preceded by '='.
func extractWikiLinks(body string) []string {
	searchIn := body
	if loc := infoboxPattern.FindStringIndex(body); loc != nil {
		searchIn = body[loc[1]:]
	}

	matches := wikiLinkPattern.FindAllStringSubmatchIndex(searchIn, -1)
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && searchIn[start-1] == '=' {
			continue
		}
		inner := searchIn[m[2]:m[3]]
		_ = end
		result = append(result, inner)
	}
	return result
}

// ContainsWikiLink reports whether body contains at least one [[...]]
// construct, used by the Graph Builder's redirect-case test (spec.md §4.4).
func ContainsWikiLink(body string) bool {
	return wikiLinkPattern.MatchString(body)
}

// FirstWikiLinkTarget returns the post-processed target of the first
// [[...]] construct in body, used to resolve a redirect page's target
// (spec.md §4.4: "take the first wiki-link; post-process").
func FirstWikiLinkTarget(body string) (string, bool) {
	m := wikiLinkPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	name := postProcess(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

func extractMainArticle(body string) []string {
	m := mainArticlePattern.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	return []string{m[1]}
}

func extractSeeAlso(body string) []string {
	var result []string
	for _, m := range seeAlsoPattern.FindAllStringSubmatch(body, -1) {
		for _, segment := range strings.Split(m[1], "|") {
			result = append(result, segment)
		}
	}
	return result
}

// postProcess strips display text after '|', a section anchor after '#',
// trims, and normalizes a single raw capture.
func postProcess(raw string) string {
	if idx := strings.IndexByte(raw, '|'); idx != -1 {
		raw = raw[:idx]
	}
	if idx := strings.IndexByte(raw, '#'); idx != -1 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return normalize.Normalize(raw)
}
