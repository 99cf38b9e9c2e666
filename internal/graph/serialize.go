package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write serializes g as tab-separated lines, one per NodeID in ascending
// order: id, name, then each link as a decimal integer (spec.md §4.5/§6).
func Write(w io.Writer, g *Graph) error {
	if len(g.NameIndex) != len(g.Articles) {
		return fmt.Errorf("graph: precondition violated, |NameIndex|=%d != |Articles|=%d", len(g.NameIndex), len(g.Articles))
	}

	reverse := g.ReverseIndex()
	buf := bufio.NewWriter(w)

	var line strings.Builder
	for id, article := range g.Articles {
		line.Reset()
		line.WriteString(strconv.Itoa(id))
		line.WriteByte('\t')
		line.WriteString(reverse[id])
		for _, link := range article.Links {
			line.WriteByte('\t')
			line.WriteString(strconv.FormatUint(uint64(link), 10))
		}
		line.WriteByte('\n')
		if _, err := buf.WriteString(line.String()); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// Read deserializes a Graph previously written by Write. Lines must be in
// dense ascending id order with no gaps, starting at 0; any violation is a
// fatal error (spec.md §4.5/§7).
func Read(r io.Reader, mode ParserMode) (*Graph, error) {
	nameIndex := make(map[string]NodeID)
	var articles []Article

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("graph: malformed line, expected at least 2 fields, got %d", len(fields))
		}

		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("graph: malformed id field %q: %w", fields[0], err)
		}
		if NodeID(id) != NodeID(len(articles)) {
			return nil, fmt.Errorf("graph: non-contiguous id %d, expected %d", id, len(articles))
		}

		name := fields[1]
		if _, exists := nameIndex[name]; exists {
			return nil, fmt.Errorf("graph: duplicate name %q at id %d", name, id)
		}
		nameIndex[name] = NodeID(id)

		linkList := []NodeID{}
		if len(fields) > 2 && fields[2] != "" {
			linkList = make([]NodeID, 0, len(fields)-2)
			for _, field := range fields[2:] {
				link, err := strconv.ParseUint(field, 10, 32)
				if err != nil {
					return nil, fmt.Errorf("graph: malformed link field %q: %w", field, err)
				}
				linkList = append(linkList, NodeID(link))
			}
		}
		articles = append(articles, Article{Links: linkList})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("graph: read error: %w", err)
	}

	return &Graph{NameIndex: nameIndex, Articles: articles, Mode: mode}, nil
}
