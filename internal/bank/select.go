package bank

import (
	"math/rand"
	"strings"
	"time"
)

// Filter returns the questions whose topic is in topics (if any given)
// AND whose difficulty is in levels (if any given). Both filters are
// normalized before comparison.
func Filter(b *Bank, topics, levels []string) []Question {
	qs := b.Soal
	if len(topics) > 0 {
		tset := map[string]struct{}{}
		for _, t := range topics {
			tset[NormalizeTopic(t)] = struct{}{}
		}
		var kept []Question
		for _, q := range qs {
			if _, ok := tset[NormalizeTopic(q.Topic)]; ok {
				kept = append(kept, q)
			}
		}
		qs = kept
	}
	if len(levels) > 0 {
		lset := map[string]struct{}{}
		for _, l := range levels {
			lset[strings.ToLower(strings.TrimSpace(l))] = struct{}{}
		}
		var kept []Question
		for _, q := range qs {
			if _, ok := lset[strings.ToLower(q.Difficulty)]; ok {
				kept = append(kept, q)
			}
		}
		qs = kept
	}
	return qs
}

// NewRand builds the generator for one selection. Sampling reproduces
// exactly for an identical seed and candidate order within this
// implementation; no cross-language bit compatibility is promised.
// A nil seed means process-randomized, non-reproducible selection.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}

// Sample draws a quiz subset. Without replacement it returns
// min(n, len(candidates)) distinct questions; it never fails when n
// exceeds availability. With replacement it returns exactly n draws,
// duplicates allowed.
func Sample(candidates []Question, n int, rng *rand.Rand, withReplacement bool) []Question {
	if rng == nil {
		rng = NewRand(nil)
	}
	if n <= 0 || len(candidates) == 0 {
		return nil
	}
	if withReplacement {
		out := make([]Question, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, candidates[rng.Intn(len(candidates))])
		}
		return out
	}
	k := n
	if k > len(candidates) {
		k = len(candidates)
	}
	perm := rng.Perm(len(candidates))
	out := make([]Question, 0, k)
	for _, idx := range perm[:k] {
		out = append(out, candidates[idx])
	}
	return out
}

// Shuffle permutes questions in place using the supplied generator.
func Shuffle(qs []Question, rng *rand.Rand) {
	if rng == nil {
		rng = NewRand(nil)
	}
	rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}
