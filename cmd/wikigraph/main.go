// Command wikigraph builds and queries the Wikipedia link graph: a "build"
// subcommand downloads and parses a dump into a serialized graph file, an
// "analyze" subcommand runs BFS-based queries against it, and a "serve"
// subcommand exposes the same queries over HTTP. Grounded in
// ldobbelsteen-wikipath's main.go flag.NewFlagSet-per-subcommand shape.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ldobbelsteen/wikigraph/internal/bfs"
	"github.com/ldobbelsteen/wikigraph/internal/graph"
	"github.com/ldobbelsteen/wikigraph/internal/memlimit"
	"github.com/ldobbelsteen/wikigraph/internal/query"
	"github.com/ldobbelsteen/wikigraph/internal/querycache"
	"github.com/ldobbelsteen/wikigraph/internal/server"
	"github.com/ldobbelsteen/wikigraph/internal/wikidump"
	"github.com/ldobbelsteen/wikigraph/internal/wikixml"

	dsnetbzip2 "github.com/dsnet/compress/bzip2"

	"github.com/cheggaaa/pb/v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("expected 'build', 'analyze' or 'serve' subcommand")
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "analyze":
		err = runAnalyze(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	default:
		log.Fatalf("unexpected subcommand %q, expected 'build', 'analyze' or 'serve'", os.Args[1])
	}
	if err != nil {
		log.Fatal(err)
	}
}

// openDumpReader opens path, transparently decompressing it with
// dsnet/compress/bzip2 if it carries a .bz2 suffix.
func openDumpReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".bz2") {
		return f, nil
	}

	reader, err := dsnetbzip2.NewReader(f, nil)
	if err != nil {
		f.Close()
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{reader, f}, nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	dumpsDir := fs.String("dumps", "dumps", "directory to download dump files to")
	mirror := fs.String("mirror", "https://dumps.wikimedia.org", "mirror to download dumps from")
	database := fs.String("database", "enwiki", "dump database name, e.g. enwiki")
	date := fs.String("date", "", "dump date string, e.g. 20240101 (required)")
	dumpPath := fs.String("dump-path", "", "path to an already-downloaded dump file, skips fetching")
	output := fs.String("output", "graph.tsv", "output path for the serialized graph")
	mode := fs.String("mode", "incoming", "link orientation to store: incoming or outgoing")
	memoryPercent := fs.Int("memory", 50, "maximum usage percentage of total system memory")
	estimatedNodes := fs.Int("estimated-nodes", 7_000_000, "estimated admitted article count, used to size link capacity")
	ignoreDir := fs.String("ignore", "", "directory of text files listing article names to ignore, one per line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var parserMode graph.ParserMode
	switch *mode {
	case "incoming":
		parserMode = graph.IncomingLinks
	case "outgoing":
		parserMode = graph.OutgoingLinks
	default:
		return fmt.Errorf("build: unknown -mode %q, expected incoming or outgoing", *mode)
	}

	var ignore map[string]struct{}
	if *ignoreDir != "" {
		var err error
		ignore, err = graph.ParseIgnoreDirectory(*ignoreDir)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		log.Printf("build: loaded %d names to ignore from %s", len(ignore), *ignoreDir)
	}

	path := *dumpPath
	if path == "" {
		if *date == "" {
			return errors.New("build: -date is required when -dump-path is not given")
		}
		var err error
		path, err = wikidump.Fetch(*dumpsDir, *mirror, *database, *date)
		if err != nil {
			return fmt.Errorf("build: fetching dump: %w", err)
		}
	}

	budget := memlimit.Resolve(*memoryPercent, *estimatedNodes)
	log.Printf("build: memory budget %d MB of %d MB total, link capacity hint %d",
		budget.BudgetBytes/1024/1024, budget.TotalBytes/1024/1024, budget.LinkCapacity)

	start := time.Now()
	scanPass := func(emit func(name, body string)) error {
		reader, err := openDumpReader(path)
		if err != nil {
			return err
		}
		defer reader.Close()
		return wikixml.Scan(reader, func(page wikixml.Page) {
			emit(page.Name, page.Body)
		})
	}

	g, err := graph.Build(graph.BuildOptions{
		Mode:             parserMode,
		Ignore:           ignore,
		LinkCapacityHint: budget.LinkCapacity,
	}, scanPass)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	log.Printf("build: admitted %d articles, took %s", len(g.Articles), time.Since(start))

	tempPath := *output + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return err
	}
	if err := graph.Write(out, g); err != nil {
		out.Close()
		os.Remove(tempPath)
		return fmt.Errorf("build: writing graph: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Rename(tempPath, *output); err != nil {
		return err
	}

	log.Printf("build: wrote %s, total time %s", *output, time.Since(start))
	return nil
}

func loadGraph(path string, mode string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var parserMode graph.ParserMode
	switch mode {
	case "incoming":
		parserMode = graph.IncomingLinks
	case "outgoing":
		parserMode = graph.OutgoingLinks
	default:
		return nil, fmt.Errorf("unknown -mode %q, expected incoming or outgoing", mode)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	bar := pb.Full.Start64(size)
	defer bar.Finish()

	return graph.Read(io.TeeReader(f, barWriter{bar}), parserMode)
}

// barWriter adapts a *pb.ProgressBar into an io.Writer that advances by the
// number of bytes written, so graph.Read's bufio.Scanner progress can be
// shown without graph.Read needing to know about progress bars at all.
type barWriter struct {
	bar *pb.ProgressBar
}

func (w barWriter) Write(p []byte) (int, error) {
	w.bar.Add(len(p))
	return len(p), nil
}

func runAnalyze(args []string) error {
	if len(args) < 1 {
		return errors.New("analyze: expected a query subcommand (distance, path, step-groups, most-linked, link-histogram)")
	}
	sub := args[0]
	args = args[1:]

	fs := flag.NewFlagSet("analyze "+sub, flag.ExitOnError)
	graphPath := fs.String("graph", "graph.tsv", "path to the serialized graph")
	mode := fs.String("mode", "incoming", "link orientation the graph file was written with")
	source := fs.String("source", "", "source article title")
	target := fs.String("target", "", "target article title (distance, path)")
	maxDepth := fs.Int("max-depth", 0, "maximum depth for step-groups (0 = unbounded)")
	randomCount := fs.Int("random", 0, "number of random roots to query instead of -source")
	topLinked := fs.Int("top-linked", 0, "number of most-linked roots to query instead of -source")
	workers := fs.Int("workers", 0, "worker count (0 = runtime.NumCPU()-1)")
	k := fs.Int("k", 10, "result count for most-linked")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := loadGraph(*graphPath, *mode)
	if err != nil {
		return fmt.Errorf("analyze: loading graph: %w", err)
	}
	names := g.ReverseIndex()
	links := bfs.LinksOf(g)
	n := len(g.Articles)

	switch sub {
	case "most-linked":
		for _, lc := range bfs.MostLinked(g, *k) {
			fmt.Printf("%s\t%d\n", names[lc.ID], lc.Count)
		}
		return nil

	case "link-histogram":
		for count, occurrences := range bfs.LinksHistogram(g) {
			fmt.Printf("%d\t%d\n", count, occurrences)
		}
		return nil

	case "distance":
		rootSet := query.RootSet{RandomCount: *randomCount, TopLinked: *topLinked}
		if *source != "" {
			rootSet.Names = []string{*source}
		}
		destID, ok := g.NameIndex[*target]
		if !ok {
			return fmt.Errorf("analyze: unknown -target %q", *target)
		}
		op := func(root graph.NodeID) (string, error) {
			distance, found := bfs.Distance(links, root, destID)
			if !found {
				return fmt.Sprintf("%s\tno path", names[root]), nil
			}
			return fmt.Sprintf("%s\t%d", names[root], distance), nil
		}
		return dispatch(rootSet, g, *workers, op)

	case "path":
		rootSet := query.RootSet{RandomCount: *randomCount, TopLinked: *topLinked}
		if *source != "" {
			rootSet.Names = []string{*source}
		}
		destID, ok := g.NameIndex[*target]
		if !ok {
			return fmt.Errorf("analyze: unknown -target %q", *target)
		}
		op := func(root graph.NodeID) (string, error) {
			path, found := bfs.Path(links, n, root, destID)
			if !found {
				return fmt.Sprintf("%s\tno path", names[root]), nil
			}
			titles := make([]string, len(path))
			for i, id := range path {
				titles[i] = names[id]
			}
			return fmt.Sprintf("%s\t%s", names[root], strings.Join(titles, " -> ")), nil
		}
		return dispatch(rootSet, g, *workers, op)

	case "step-groups":
		rootSet := query.RootSet{RandomCount: *randomCount, TopLinked: *topLinked}
		if *source != "" {
			rootSet.Names = []string{*source}
		}
		op := func(root graph.NodeID) (string, error) {
			groups := bfs.StepGroups(links, n, root, *maxDepth)
			parts := make([]string, len(groups))
			for i, group := range groups {
				titles := make([]string, len(group))
				for j, id := range group {
					titles[j] = names[id]
				}
				parts[i] = strconv.Itoa(i+1) + ":" + strings.Join(titles, ",")
			}
			return fmt.Sprintf("%s\t%s", names[root], strings.Join(parts, ";")), nil
		}
		return dispatch(rootSet, g, *workers, op)

	default:
		return fmt.Errorf("analyze: unknown subcommand %q", sub)
	}
}

func dispatch(rootSet query.RootSet, g *graph.Graph, workers int, op query.Operation) error {
	roots, missing := rootSet.Resolve(g, func(g *graph.Graph, k int) []graph.NodeID {
		ids := make([]graph.NodeID, 0, k)
		for _, lc := range bfs.MostLinked(g, k) {
			ids = append(ids, lc.ID)
		}
		return ids
	})
	for _, name := range missing {
		log.Printf("analyze: no article titled %q, skipping", name)
	}
	if len(roots) == 0 {
		return errors.New("analyze: no roots to query, specify -source, -random, or -top-linked")
	}
	return query.Dispatch(context.Background(), roots, workers, op, os.Stdout)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	graphPath := fs.String("graph", "graph.tsv", "path to the serialized graph")
	mode := fs.String("mode", "incoming", "link orientation the graph file was written with")
	addr := fs.String("addr", ":1789", "address to listen on")
	cachePath := fs.String("cache", "", "path to a persistent query-result cache (disabled if empty)")
	cacheSizeMB := fs.Int("cache-size", 256, "maximum query-result cache size in megabytes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := loadGraph(*graphPath, *mode)
	if err != nil {
		return fmt.Errorf("serve: loading graph: %w", err)
	}

	var cache *querycache.Cache
	if *cachePath != "" {
		cache, err = querycache.Open(*cachePath, int64(*cacheSizeMB)*1024*1024)
		if err != nil {
			return fmt.Errorf("serve: opening cache: %w", err)
		}
		defer cache.Close()
	}

	return server.New(g, cache).ListenAndServe(*addr)
}
