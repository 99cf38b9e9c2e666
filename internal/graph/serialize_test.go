package graph

import (
	"bytes"
	"reflect"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	g := &Graph{
		NameIndex: map[string]NodeID{"A": 0, "B": 1, "C": 2},
		Articles: []Article{
			{Links: []NodeID{}},
			{Links: []NodeID{0}},
			{Links: []NodeID{0, 1}},
		},
		Mode: IncomingLinks,
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(&buf, IncomingLinks)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if !reflect.DeepEqual(got.NameIndex, g.NameIndex) {
		t.Errorf("NameIndex = %v, want %v", got.NameIndex, g.NameIndex)
	}
	for i := range g.Articles {
		if !reflect.DeepEqual(got.Articles[i].Links, g.Articles[i].Links) {
			t.Errorf("Articles[%d].Links = %v, want %v", i, got.Articles[i].Links, g.Articles[i].Links)
		}
	}
}

func TestWriteNoLinksHasNoTrailingTabs(t *testing.T) {
	g := &Graph{
		NameIndex: map[string]NodeID{"Solo": 0},
		Articles:  []Article{{Links: nil}},
	}
	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := "0\tSolo\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestReadRejectsNonContiguousIDs(t *testing.T) {
	_, err := Read(bytes.NewBufferString("0\tA\n2\tB\n"), IncomingLinks)
	if err == nil {
		t.Error("expected error for non-contiguous ids")
	}
}

func TestReadRejectsDuplicateName(t *testing.T) {
	_, err := Read(bytes.NewBufferString("0\tA\n1\tA\n"), IncomingLinks)
	if err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestReadRejectsMalformedLine(t *testing.T) {
	_, err := Read(bytes.NewBufferString("not-an-id\n"), IncomingLinks)
	if err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestWritePreconditionViolation(t *testing.T) {
	g := &Graph{
		NameIndex: map[string]NodeID{"A": 0, "B": 1},
		Articles:  []Article{{}},
	}
	var buf bytes.Buffer
	if err := Write(&buf, g); err == nil {
		t.Error("expected error when |NameIndex| != |Articles|")
	}
}
