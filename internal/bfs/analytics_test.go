package bfs

import (
	"reflect"
	"testing"

	"github.com/ldobbelsteen/wikigraph/internal/graph"
)

func histogramGraph() *graph.Graph {
	return &graph.Graph{
		Articles: []graph.Article{
			{Links: nil},
			{Links: []graph.NodeID{0}},
			{Links: []graph.NodeID{0}},
			{Links: []graph.NodeID{0, 1, 2}},
		},
	}
}

func TestLinksHistogram(t *testing.T) {
	got := LinksHistogram(histogramGraph())
	want := []int{1, 2, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LinksHistogram() = %v, want %v", got, want)
	}
}

func TestMostLinkedZero(t *testing.T) {
	got := MostLinked(histogramGraph(), 0)
	if len(got) != 0 {
		t.Errorf("MostLinked(0) = %v, want empty", got)
	}
}

func TestMostLinkedExceedingN(t *testing.T) {
	g := histogramGraph()
	got := MostLinked(g, 100)
	if len(got) != len(g.Articles) {
		t.Errorf("MostLinked(100) returned %d, want %d", len(got), len(g.Articles))
	}
}

func TestMostLinkedOrderedDescending(t *testing.T) {
	g := histogramGraph()
	got := MostLinked(g, 2)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Count < got[1].Count {
		t.Errorf("MostLinked not sorted descending: %v", got)
	}
	if got[0].Count != 3 {
		t.Errorf("top result count = %d, want 3", got[0].Count)
	}
}
