// Package query runs BFS operations concurrently over a set of root
// NodeIDs, serializing result lines through a single mutex-guarded output
// sink (spec.md §4.7). Concretizes the worker pool on
// golang.org/x/sync/errgroup, already present as an indirect dependency
// elsewhere in the pack and used directly by the qrank builder pipeline
// for bounded-concurrency fan-out over large dumps.
package query

import (
	"context"
	"io"
	"math/rand"
	"runtime"
	"sync"

	"github.com/ldobbelsteen/wikigraph/internal/graph"

	"golang.org/x/sync/errgroup"
)

// Operation computes one line of output for a root NodeID. Errors abort the
// whole dispatch; spec.md's BFS operations themselves never error (they
// return Option types), so an Operation reports "no path" outcomes in its
// returned line rather than as an error.
type Operation func(root graph.NodeID) (line string, err error)

// WorkerCount returns max(1, runtime.NumCPU()-1), where NumCPU counts
// logical CPUs; spec.md §4.7's default sizing recommendation.
func WorkerCount() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		return 1
	}
	return n
}

// Dispatch runs op concurrently over roots using up to workers goroutines
// (0 or negative means WorkerCount()), writing one line per root — each
// terminated with a newline — into sink under a single mutex so individual
// lines are never interleaved. Result ordering across roots is not
// guaranteed (spec.md §4.7). The first Operation error cancels the
// remaining work and is returned.
func Dispatch(ctx context.Context, roots []graph.NodeID, workers int, op Operation, sink io.Writer) error {
	if workers <= 0 {
		workers = WorkerCount()
	}

	var sinkMutex sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, root := range roots {
		root := root
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			line, err := op(root)
			if err != nil {
				return err
			}
			sinkMutex.Lock()
			defer sinkMutex.Unlock()
			_, err = io.WriteString(sink, line+"\n")
			return err
		})
	}

	return group.Wait()
}

// RootSet selects the set of root NodeIDs a Dispatch call operates over,
// per spec.md §4.7's mutually exclusive selection modes.
type RootSet struct {
	Names       []string // explicit list of names, translated via NameIndex
	RandomCount int      // N uniformly random NodeIDs in [0, |articles|)
	TopLinked   int      // top-N by link count (internal/bfs.MostLinked)
}

// Resolve translates a RootSet into concrete NodeIDs against g. Exactly one
// of Names, RandomCount, or TopLinked is expected to be set by the caller;
// Resolve does not itself enforce mutual exclusivity (that is a CLI-shell
// concern per spec.md §1).
func (rs RootSet) Resolve(g *graph.Graph, mostLinked func(*graph.Graph, int) []graph.NodeID) ([]graph.NodeID, []string) {
	var missing []string

	if len(rs.Names) > 0 {
		roots := make([]graph.NodeID, 0, len(rs.Names))
		for _, name := range rs.Names {
			id, ok := g.NameIndex[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			roots = append(roots, id)
		}
		return roots, missing
	}

	if rs.TopLinked > 0 {
		return mostLinked(g, rs.TopLinked), nil
	}

	if rs.RandomCount > 0 {
		n := len(g.Articles)
		roots := make([]graph.NodeID, rs.RandomCount)
		for i := range roots {
			roots[i] = graph.NodeID(rand.Intn(n))
		}
		return roots, nil
	}

	return nil, nil
}
