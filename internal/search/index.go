// Package search matches queries against the story library. Everything runs
// over the decrypted in-memory bundle; nothing is ever indexed to disk.
package search

import (
	"sort"
	"strings"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

// Index is a rebuildable snapshot of searchable story fields.
type Index struct {
	entries []entry
}

type entry struct {
	id    string
	title string
	terms []string
}

// New builds an index over the given stories. The session rebuilds it from
// the current snapshot per query; libraries are small enough that the
// rebuild is cheaper than keeping an index coherent across wholesale bundle
// replacement.
func New(stories []bundle.Story) *Index {
	idx := &Index{entries: make([]entry, 0, len(stories))}
	for _, s := range stories {
		e := entry{
			id:    s.ID,
			title: strings.ToLower(s.Title),
			terms: make([]string, 0, len(s.Tags)+2),
		}
		for _, t := range s.Tags {
			e.terms = append(e.terms, strings.ToLower(t))
		}
		if s.Genre != "" {
			e.terms = append(e.terms, strings.ToLower(s.Genre))
		}
		if s.Synopsis != "" {
			e.terms = append(e.terms, strings.ToLower(s.Synopsis))
		}
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// Query returns the IDs of matching stories. Matching is case-insensitive
// substring over title, tags, genre and synopsis; title matches sort first.
func (idx *Index) Query(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	type hit struct {
		id      string
		inTitle bool
		pos     int
	}
	var hits []hit
	for pos, e := range idx.entries {
		if strings.Contains(e.title, q) {
			hits = append(hits, hit{id: e.id, inTitle: true, pos: pos})
			continue
		}
		for _, term := range e.terms {
			if strings.Contains(term, q) {
				hits = append(hits, hit{id: e.id, pos: pos})
				break
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].inTitle != hits[j].inTitle {
			return hits[i].inTitle
		}
		return hits[i].pos < hits[j].pos
	})
	if len(hits) == 0 {
		return nil
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}
