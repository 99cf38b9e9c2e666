// Package graph holds the dense integer-indexed directed link graph data
// model (spec.md §3) and the two-pass builder and TSV serializer that
// produce and persist it.
package graph

// NodeID is a dense unsigned integer identifier assigned in admission order.
type NodeID = uint32

// ParserMode selects the orientation of every Article's links: the set of
// nodes that link to it (incoming) or the set of nodes it links to
// (outgoing). Orientation is a global property of a Graph.
type ParserMode int

const (
	// IncomingLinks stores predecessors in Article.Links.
	IncomingLinks ParserMode = iota
	// OutgoingLinks stores successors in Article.Links.
	OutgoingLinks
)

// Article is the record for one node: its adjacency (predecessors or
// successors), oriented per the Graph's ParserMode. Links is sorted ascending and de-duplicated.
type Article struct {
	Links []NodeID
}

// Graph is the frozen pair (NameIndex, Articles) produced by Build or Read.
type Graph struct {
	// NameIndex maps a normalized Name to its NodeID. Append-only during
	// build, read-only thereafter.
	NameIndex map[string]NodeID
	Articles  []Article
	Mode      ParserMode
}

// ReverseIndex inverts a Graph's NameIndex, mapping NodeID back to Name.
// Derived once at analysis start, per spec.md §3 Lifecycles.
func (g *Graph) ReverseIndex() []string {
	reverse := make([]string, len(g.Articles))
	for name, id := range g.NameIndex {
		reverse[id] = name
	}
	return reverse
}
