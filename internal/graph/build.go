package graph

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ldobbelsteen/wikigraph/internal/links"
)

// disambiguationMarkers are the literal template-start substrings spec.md
// §4.4 names for detecting a disambiguation page.
var disambiguationMarkers = []string{"{{disamb", "{{Disamb", "{{dab}}"}

// redirectPrefixes are the literal markers spec.md §4.4 names for detecting
// a redirect page; the rest of the marker (what follows) is irrelevant.
var redirectPrefixes = []string{"#redirect", "#REDIRECT"}

// BuildOptions configures one Build invocation.
type BuildOptions struct {
	Mode ParserMode
	// Ignore is a set of normalized names to drop during admission
	// (spec.md §6, the optional ignore directory).
	Ignore map[string]struct{}
	// LinkCapacityHint seeds each Article's Links slice capacity, sized by
	// the caller (internal/memlimit) from the available memory budget.
	// Zero means let append grow the slice from scratch.
	LinkCapacityHint int
}

// builder is the transient state of one Build invocation: the NameIndex and
// Articles under construction, plus the transient RedirectTable and the
// RedirectIndex it resolves into. Single-threaded per spec.md §5.
type builder struct {
	opts          BuildOptions
	nameIndex     map[string]NodeID
	articles      []Article
	redirectTable map[string]string
	redirectIndex map[string]NodeID
}

// Build runs both scanner passes (via scanPass) over a dump and returns the
// resulting Graph. scanPass is called twice: once for page admission, once
// for edge population, each time with a distinct emit callback passed
// through to it so the caller controls how the dump is actually read
// (buffered file, decompression, progress bar) without this package needing
// to know about any of that.
func Build(opts BuildOptions, scanPass func(emit func(name, body string)) error) (*Graph, error) {
	b := &builder{
		opts:          opts,
		nameIndex:     make(map[string]NodeID),
		redirectTable: make(map[string]string),
		redirectIndex: make(map[string]NodeID),
	}

	if err := scanPass(b.admit); err != nil {
		return nil, fmt.Errorf("graph: pass 1 (admission): %w", err)
	}

	b.resolveRedirects()

	if err := scanPass(b.populateEdges); err != nil {
		return nil, fmt.Errorf("graph: pass 2 (edges): %w", err)
	}

	b.finalize()

	if len(b.nameIndex) != len(b.articles) {
		return nil, fmt.Errorf("graph: invariant violated, |NameIndex|=%d != |Articles|=%d", len(b.nameIndex), len(b.articles))
	}

	return &Graph{NameIndex: b.nameIndex, Articles: b.articles, Mode: opts.Mode}, nil
}

// admit is the pass-1 callback: page admission (spec.md §4.4).
func (b *builder) admit(name, body string) {
	if name == "" {
		return // inadmissible title, already dropped by the scanner
	}
	if _, ignored := b.opts.Ignore[name]; ignored {
		return
	}

	isRedirect := hasRedirectMarker(body)
	isDisambiguation := hasDisambiguationMarker(body)

	switch {
	case isRedirect && links.ContainsWikiLink(body):
		target, ok := links.FirstWikiLinkTarget(body)
		if !ok {
			return
		}
		if _, exists := b.redirectTable[name]; exists {
			log.Printf("graph: duplicate redirect key %q, keeping first", name)
			return
		}
		b.redirectTable[name] = target

	case isDisambiguation:
		// dropped: no NodeID, no Article

	default:
		if _, exists := b.nameIndex[name]; exists {
			log.Printf("graph: duplicate page admission %q, keeping first", name)
			return
		}
		if len(b.articles) >= math.MaxUint32 {
			log.Fatalf("graph: node ID overflow, more than %d admitted articles", math.MaxUint32)
		}
		id := NodeID(len(b.articles))
		b.nameIndex[name] = id
		b.articles = append(b.articles, Article{Links: make([]NodeID, 0, b.opts.LinkCapacityHint)})
	}
}

// resolveRedirects closes redirect chains between the two passes (spec.md
// §4.4 "Redirect closure"). Bounded by the size of RedirectTable; cycles
// terminate with failure (dropped), not an infinite loop.
func (b *builder) resolveRedirects() {
	maxSteps := len(b.redirectTable) + 1
	for name, target := range b.redirectTable {
		visited := make(map[string]struct{})
		current := target
		steps := 0
		for {
			if id, ok := b.nameIndex[current]; ok {
				b.redirectIndex[name] = id
				break
			}
			next, isRedirect := b.redirectTable[current]
			if !isRedirect {
				break // dead link: current has no further redirect entry
			}
			if _, seen := visited[current]; seen {
				break // cyclic redirect chain: drop
			}
			visited[current] = struct{}{}
			current = next
			steps++
			if steps > maxSteps {
				break
			}
		}
	}
}

// populateEdges is the pass-2 callback: edge population (spec.md §4.4).
func (b *builder) populateEdges(name, body string) {
	if name == "" {
		return
	}
	sourceID, ok := b.nameIndex[name]
	if !ok {
		return // was a dropped redirect/disambiguation, or ignored
	}
	for _, target := range links.Extract(body) {
		targetID, ok := b.resolveTarget(target)
		if !ok {
			continue // resolves to neither a page nor a redirect
		}
		switch b.opts.Mode {
		case IncomingLinks:
			b.articles[targetID].Links = append(b.articles[targetID].Links, sourceID)
		case OutgoingLinks:
			b.articles[sourceID].Links = append(b.articles[sourceID].Links, targetID)
		}
	}
}

func (b *builder) resolveTarget(name string) (NodeID, bool) {
	if id, ok := b.nameIndex[name]; ok {
		return id, true
	}
	if id, ok := b.redirectIndex[name]; ok {
		return id, true
	}
	return 0, false
}

// finalize sorts and de-duplicates every Article's Links, spec.md §4.4.
func (b *builder) finalize() {
	for i := range b.articles {
		b.articles[i].Links = sortDedup(b.articles[i].Links)
	}
}

func sortDedup(ids []NodeID) []NodeID {
	if len(ids) == 0 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func hasRedirectMarker(body string) bool {
	for _, prefix := range redirectPrefixes {
		if strings.HasPrefix(body, prefix) {
			return true
		}
	}
	return false
}

func hasDisambiguationMarker(body string) bool {
	for _, marker := range disambiguationMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
