// Package wikixml streams a Wikipedia XML database dump, yielding
// (title, body) pairs for admissible pages without loading the whole
// document into memory. Grounded in the Decoder.Token() streaming loop
// shape used by stephen-mw/wikireader_fastparse's xml.go and
// miku/wikikit's wikikit.go, generalized into the three-state machine
// spec.md §4.3 requires instead of their single-page-at-a-time unmarshal.
package wikixml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ldobbelsteen/wikigraph/internal/normalize"
)

// Page is an emitted (name, body) pair for one admissible page.
type Page struct {
	Name string
	Body string
}

// state is the scanner's three-valued state, spec.md §4.3.
type state int

const (
	stateIdle state = iota
	stateReadingTitle
	stateReadingBody
)

// Scan walks the XML dump in r exactly once, invoking emit for every
// admissible (name, body) pair encountered. It is fully restartable: call
// Scan again from a fresh reader over the same file to run a second pass.
// A malformed document is a fatal error, returned with its byte offset.
func Scan(r io.Reader, emit func(Page)) error {
	decoder := xml.NewDecoder(r)

	var st state
	var sourceName *string
	var text strings.Builder

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("wikixml: parse error at offset %d: %w", decoder.InputOffset(), err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				st = stateReadingTitle
				text.Reset()
			case "text":
				if sourceName != nil {
					st = stateReadingBody
					text.Reset()
				}
			}
		case xml.CharData:
			if st == stateReadingTitle || st == stateReadingBody {
				text.Write(t)
			}
		case xml.EndElement:
			switch {
			case st == stateReadingTitle && t.Name.Local == "title":
				name := normalize.Normalize(text.String())
				if normalize.IsAdmissible(name) {
					n := name
					sourceName = &n
				} else {
					sourceName = nil
				}
			case st == stateReadingBody && t.Name.Local == "text":
				var name string
				if sourceName != nil {
					name = *sourceName
				}
				emit(Page{Name: name, Body: text.String()})
				sourceName = nil
			}
			st = stateIdle
		}
	}
}
