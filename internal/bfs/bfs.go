// Package bfs implements the core traversal primitive over a frozen
// adjacency list (internal/graph.Graph): distance, shortest path, and
// layered step-groups, each a level-by-level expansion with a bit-packed
// visited set. Grounded in ldobbelsteen-wikipath's bidirectional BFS shape
// (search.go/database.go), generalized to the single-direction template
// spec.md §4.6 specifies — bidirectional meet-in-the-middle is not adopted
// since it would change observable traversal behavior the spec pins down.
package bfs

import "github.com/ldobbelsteen/wikigraph/internal/graph"

const wordBits = 64

// visitedSet is the bit-packed boolean vector addressed by NodeID, spec.md
// §4.6's "Visited set layout": bit i of word i>>6, mask i&63.
type visitedSet struct {
	words []uint64
}

func newVisitedSet(n int) visitedSet {
	return visitedSet{words: make([]uint64, (n+wordBits-1)/wordBits)}
}

func (v visitedSet) isSet(i graph.NodeID) bool {
	return v.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

func (v visitedSet) set(i graph.NodeID) {
	v.words[i/wordBits] |= 1 << (i % wordBits)
}

// Links is the predecessor (or successor, per the Graph's orientation)
// adjacency accessor the BFS engine operates over.
type Links func(graph.NodeID) []graph.NodeID

// LinksOf returns a Links accessor bound to g, interpreting g.Articles[i]
// as predecessors of i, per spec.md §4.6.
func LinksOf(g *graph.Graph) Links {
	return func(id graph.NodeID) []graph.NodeID {
		return g.Articles[id].Links
	}
}

// Distance returns the length of the shortest predecessor-edge walk from
// start to destination, or false if none exists. Deliberately does not
// maintain a visited set (spec.md §9: "a deliberate trade-off in the
// source" — cheaper memory, may revisit nodes on dense graphs). Preserved
// as specified; do not add a visited set here without documenting the
// behavioral change (see DESIGN.md).
func Distance(links Links, start, destination graph.NodeID) (int, bool) {
	depth := 1
	frontier := append([]graph.NodeID{}, links(destination)...)

	for len(frontier) > 0 {
		var next []graph.NodeID
		for _, u := range frontier {
			if u == start {
				return depth, true
			}
			next = append(next, links(u)...)
		}
		frontier = next
		depth++
	}
	return 0, false
}

// Path returns the shortest predecessor-edge walk from start to
// destination as [start, ..., destination], or false if none exists.
// Visited is marked at enqueue time, not dequeue time, which is required
// to prevent duplicate expansion (spec.md §4.6). A direct one-hop path is
// not special-cased in the initial population loop — matching the
// grounding original, the start==destination-predecessor check only
// happens one level further in, against predecessors of the frontier's
// tail (see DESIGN.md's Open Question resolutions).
func Path(links Links, n int, start, destination graph.NodeID) ([]graph.NodeID, bool) {
	visited := newVisitedSet(n)
	var frontier [][]graph.NodeID
	for _, v := range links(destination) {
		if !visited.isSet(v) {
			visited.set(v)
			frontier = append(frontier, []graph.NodeID{v})
		}
	}

	for len(frontier) > 0 {
		var next [][]graph.NodeID
		for _, p := range frontier {
			tail := p[len(p)-1]
			for _, w := range links(tail) {
				if w == start {
					result := make([]graph.NodeID, 0, len(p)+2)
					result = append(result, start)
					for i := len(p) - 1; i >= 0; i-- {
						result = append(result, p[i])
					}
					result = append(result, destination)
					return result, true
				}
				if !visited.isSet(w) {
					visited.set(w)
					extended := make([]graph.NodeID, len(p)+1)
					copy(extended, p)
					extended[len(p)] = w
					next = append(next, extended)
				}
			}
		}
		frontier = next
	}
	return nil, false
}

// StepGroups returns the layered predecessor groups of root: group k-1
// holds every node exactly k predecessor-edges from root, for
// k = 1, 2, ..., up to maxDepth groups. root itself is never included in
// any returned group, even though a naive reading of "layered level-sets"
// might suggest group 0 should be [root] — preserved as specified
// (spec.md §9: "step_groups omits the root").
func StepGroups(links Links, n int, root graph.NodeID, maxDepth int) [][]graph.NodeID {
	if maxDepth <= 0 {
		maxDepth = n
	}

	visited := newVisitedSet(n)
	visited.set(root)

	first := make([]graph.NodeID, 0, len(links(root)))
	for _, v := range links(root) {
		if v != root {
			first = append(first, v)
		}
	}
	for _, v := range first {
		visited.set(v)
	}

	groups := [][]graph.NodeID{first}
	depth := maxDepth
	for depth > 1 {
		latest := groups[len(groups)-1]
		var next []graph.NodeID
		for _, u := range latest {
			for _, v := range links(u) {
				if !visited.isSet(v) {
					visited.set(v)
					next = append(next, v)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		groups = append(groups, next)
		depth--
	}
	return groups
}
