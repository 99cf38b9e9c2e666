package bfs

import (
	"sort"

	"github.com/ldobbelsteen/wikigraph/internal/graph"
)

// LinkCount pairs a NodeID with its link count, returned by MostLinked.
type LinkCount struct {
	ID    graph.NodeID
	Count int
}

// MostLinked returns the k NodeIDs with the largest Links length, sorted
// descending by count. Ties are broken by an unstable sort, spec.md §4.8.
func MostLinked(g *graph.Graph, k int) []LinkCount {
	if k <= 0 {
		return []LinkCount{}
	}
	all := make([]LinkCount, len(g.Articles))
	for id, article := range g.Articles {
		all[id] = LinkCount{ID: graph.NodeID(id), Count: len(article.Links)}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	if k > len(all) {
		k = len(all)
	}
	return all[:k]
}

// LinksHistogram returns H where H[c] is the number of Articles whose
// Links length equals c, length max(len(Links))+1, spec.md §4.8.
func LinksHistogram(g *graph.Graph) []int {
	maxCount := 0
	for _, article := range g.Articles {
		if len(article.Links) > maxCount {
			maxCount = len(article.Links)
		}
	}
	histogram := make([]int, maxCount+1)
	for _, article := range g.Articles {
		histogram[len(article.Links)]++
	}
	return histogram
}
