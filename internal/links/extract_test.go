package links

import (
	"reflect"
	"testing"
)

func TestExtractWikiLink(t *testing.T) {
	body := "Neil Armstrong walked on [[the Moon]] during [[Apollo 11]]."
	got := Extract(body)
	want := []string{"Apollo 11", "The Moon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractStripsDisplayTextAndAnchor(t *testing.T) {
	body := "See [[Moon landing|the landing]] and [[Apollo program#Missions|missions]]."
	got := Extract(body)
	want := []string{"Apollo program", "Moon landing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractExcludesSectionHeadings(t *testing.T) {
	body := "==[[Section Heading]]==\nBody text with [[Real Link]]."
	got := Extract(body)
	want := []string{"Real Link"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractMainArticleTemplate(t *testing.T) {
	body := "{{main article|Lunar Geology}}\nText."
	got := Extract(body)
	want := []string{"Lunar Geology"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractSeeAlsoTemplate(t *testing.T) {
	body := "{{see also|Moon|Apollo Program|Lunar Rover}}"
	got := Extract(body)
	want := []string{"Apollo Program", "Lunar Rover", "Moon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractExcludesInfoboxContents(t *testing.T) {
	body := "{{Infobox Space mission\n|mission_name=Apollo 11\n|link=[[Ignored Link]]\n}}\nReal text with [[Kept Link]]."
	got := Extract(body)
	want := []string{"Kept Link"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractDeduplicatesAndSorts(t *testing.T) {
	body := "[[Zebra]] [[Apple]] [[zebra]] [[Apple|fruit]]"
	got := Extract(body)
	want := []string{"Apple", "Zebra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}

func TestExtractEmptyCaptureDiscarded(t *testing.T) {
	body := "[[]] [[   |display only]] [[Real]]"
	got := Extract(body)
	want := []string{"Real"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Extract() = %v, want %v", got, want)
	}
}
