package query

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/ldobbelsteen/wikigraph/internal/graph"
)

func TestDispatchWritesOneLinePerRoot(t *testing.T) {
	roots := []graph.NodeID{0, 1, 2, 3, 4}
	var buf bytes.Buffer
	var mu sync.Mutex

	var lockedBuf lockedWriter
	lockedBuf.buf = &buf
	lockedBuf.mu = &mu

	op := func(root graph.NodeID) (string, error) {
		return strconv.Itoa(int(root)), nil
	}

	if err := Dispatch(context.Background(), roots, 4, op, &lockedBuf); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(roots) {
		t.Fatalf("got %d lines, want %d", len(lines), len(roots))
	}
	seen := map[string]bool{}
	for _, l := range lines {
		seen[l] = true
	}
	for _, r := range roots {
		if !seen[strconv.Itoa(int(r))] {
			t.Errorf("missing line for root %d", r)
		}
	}
}

func TestDispatchPropagatesError(t *testing.T) {
	roots := []graph.NodeID{0, 1, 2}
	boom := errors.New("boom")
	op := func(root graph.NodeID) (string, error) {
		if root == 1 {
			return "", boom
		}
		return "ok", nil
	}
	var buf bytes.Buffer
	err := Dispatch(context.Background(), roots, 2, op, &buf)
	if !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want %v", err, boom)
	}
}

func TestWorkerCountAtLeastOne(t *testing.T) {
	if WorkerCount() < 1 {
		t.Errorf("WorkerCount() = %d, want >= 1", WorkerCount())
	}
}

func TestRootSetResolveExplicitNames(t *testing.T) {
	g := &graph.Graph{NameIndex: map[string]graph.NodeID{"A": 0, "B": 1}}
	rs := RootSet{Names: []string{"A", "B", "Missing"}}
	roots, missing := rs.Resolve(g, nil)
	if len(roots) != 2 {
		t.Errorf("got %d roots, want 2", len(roots))
	}
	if len(missing) != 1 || missing[0] != "Missing" {
		t.Errorf("missing = %v, want [Missing]", missing)
	}
}

func TestRootSetResolveRandom(t *testing.T) {
	g := &graph.Graph{Articles: make([]graph.Article, 10)}
	rs := RootSet{RandomCount: 5}
	roots, _ := rs.Resolve(g, nil)
	if len(roots) != 5 {
		t.Errorf("got %d roots, want 5", len(roots))
	}
	for _, r := range roots {
		if r >= 10 {
			t.Errorf("root %d out of range [0,10)", r)
		}
	}
}

// lockedWriter is a minimal mutex-guarded io.Writer for the test, standing
// in for the CLI's real output sink without pulling in extra dependencies.
type lockedWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
