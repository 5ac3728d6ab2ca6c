package search

import (
	"testing"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

func fixtureStories() []bundle.Story {
	return []bundle.Story{
		{ID: "a", Title: "The Glass Orchard", Tags: []string{"fantasy"}, Genre: "fantasy"},
		{ID: "b", Title: "Orchard Lane Murders", Synopsis: "a detective in a dying town"},
		{ID: "c", Title: "Stellar Drift", Tags: []string{"sci-fi", "space opera"}},
	}
}

func TestQueryTitleFirst(t *testing.T) {
	idx := New(fixtureStories())
	got := idx.Query("orchard")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Query(orchard) = %v", got)
	}
}

func TestQueryFields(t *testing.T) {
	idx := New(fixtureStories())

	if got := idx.Query("SPACE OPERA"); len(got) != 1 || got[0] != "c" {
		t.Fatalf("tag query = %v", got)
	}
	if got := idx.Query("detective"); len(got) != 1 || got[0] != "b" {
		t.Fatalf("synopsis query = %v", got)
	}
	if got := idx.Query("fantasy"); len(got) != 1 || got[0] != "a" {
		t.Fatalf("genre query = %v", got)
	}
}

func TestQueryEmptyAndMiss(t *testing.T) {
	idx := New(fixtureStories())
	if got := idx.Query("   "); got != nil {
		t.Fatalf("blank query = %v", got)
	}
	if got := idx.Query("zeppelin"); got != nil {
		t.Fatalf("miss = %v", got)
	}
	if got := New(nil).Query("x"); got != nil {
		t.Fatalf("empty index = %v", got)
	}
}
