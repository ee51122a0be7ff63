package bank

import (
	"reflect"
	"testing"
)

func makeQuestions(n int) []Question {
	qs := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, Question{
			ID:         string(rune('a'+i)) + "-q",
			Topic:      "gaya",
			Difficulty: "mudah",
		})
	}
	return qs
}

func TestFilter(t *testing.T) {
	b := &Bank{Mapel: "ipa", Soal: []Question{
		{ID: "1", Topic: "gaya", Difficulty: "mudah"},
		{ID: "2", Topic: "gaya", Difficulty: "sulit"},
		{ID: "3", Topic: "dunia_tumbuhan", Difficulty: "mudah"},
		{ID: "4", Topic: "energi", Difficulty: "sedang"},
	}}

	tests := []struct {
		name    string
		topics  []string
		levels  []string
		wantIDs []string
	}{
		{name: "no filters", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "topic only", topics: []string{"Gaya"}, wantIDs: []string{"1", "2"}},
		{name: "level only", levels: []string{"mudah"}, wantIDs: []string{"1", "3"}},
		{name: "topic and level", topics: []string{"gaya"}, levels: []string{"sulit"}, wantIDs: []string{"2"}},
		{name: "or within topics", topics: []string{"gaya", "energi"}, wantIDs: []string{"1", "2", "4"}},
		{name: "nothing matches", topics: []string{"listrik"}, wantIDs: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(b, tc.topics, tc.levels)
			var ids []string
			for _, q := range got {
				ids = append(ids, q.ID)
			}
			if !reflect.DeepEqual(ids, tc.wantIDs) {
				t.Fatalf("expected %v, got %v", tc.wantIDs, ids)
			}
		})
	}
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	qs := makeQuestions(10)
	seed := int64(42)

	first := Sample(qs, 5, NewRand(&seed), false)
	second := Sample(qs, 5, NewRand(&seed), false)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed must give the same sample: %v vs %v", first, second)
	}
}

func TestSampleWithoutReplacementCaps(t *testing.T) {
	qs := makeQuestions(3)
	seed := int64(1)
	got := Sample(qs, 10, NewRand(&seed), false)
	if len(got) != 3 {
		t.Fatalf("expected cap at 3, got %d", len(got))
	}
	seen := map[string]struct{}{}
	for _, q := range got {
		if _, dup := seen[q.ID]; dup {
			t.Fatalf("duplicate %s without replacement", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestSampleWithReplacementExactN(t *testing.T) {
	qs := makeQuestions(2)
	seed := int64(7)
	got := Sample(qs, 9, NewRand(&seed), true)
	if len(got) != 9 {
		t.Fatalf("expected exactly 9 draws, got %d", len(got))
	}
}

func TestSampleDegenerateInputs(t *testing.T) {
	seed := int64(1)
	if got := Sample(nil, 5, NewRand(&seed), false); got != nil {
		t.Fatalf("expected nil for empty candidates, got %v", got)
	}
	if got := Sample(makeQuestions(3), 0, NewRand(&seed), false); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
