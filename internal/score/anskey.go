package score

import (
	"sort"
	"strings"

	"learncheck/internal/bank"
)

// KeyEntry is the answer key for one (mapel, question id) pair.
type KeyEntry struct {
	Kunci   string
	Bobot   int
	Topik   string
	Tingkat string
}

type indexKey struct {
	Mapel string
	QID   string
}

// Index maps (mapel, id) to its key entry and keeps the reverse id ->
// subjects map used to resolve submissions that omit their subject.
// Duplicate ids within a bank resolve last-write-wins, in bank order.
type Index struct {
	entries  map[indexKey]KeyEntry
	subjects map[string]map[string]struct{}
}

// BuildIndex derives the index from a full bank set in one pass. It is
// rebuilt together with every bank reload, never from a stale set.
func BuildIndex(banks map[string]*bank.Bank) *Index {
	ix := &Index{
		entries:  map[indexKey]KeyEntry{},
		subjects: map[string]map[string]struct{}{},
	}
	for mapel, b := range banks {
		mapel = strings.ToLower(mapel)
		for _, q := range b.Soal {
			qid := strings.TrimSpace(q.ID)
			if qid == "" {
				continue
			}
			ix.entries[indexKey{Mapel: mapel, QID: qid}] = KeyEntry{
				Kunci:   strings.ToUpper(strings.TrimSpace(q.Key)),
				Bobot:   q.Weight,
				Topik:   q.Topic,
				Tingkat: q.Difficulty,
			}
			if ix.subjects[qid] == nil {
				ix.subjects[qid] = map[string]struct{}{}
			}
			ix.subjects[qid][mapel] = struct{}{}
		}
	}
	return ix
}

// Lookup returns the key entry for (mapel, qid).
func (ix *Index) Lookup(mapel, qid string) (KeyEntry, bool) {
	e, ok := ix.entries[indexKey{Mapel: strings.ToLower(mapel), QID: qid}]
	return e, ok
}

// Subjects lists every subject containing qid, sorted. An id is only
// usable for implicit resolution when this has exactly one element.
func (ix *Index) Subjects(qid string) []string {
	set := ix.subjects[qid]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of key entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}
