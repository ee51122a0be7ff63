// Package evalx measures a predictor against external test banks that
// are disjoint from the training data.
package evalx

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"learncheck/internal/bank"
	"learncheck/internal/predict"
	"learncheck/internal/score"
)

var spaceRe = regexp.MustCompile(`\s+`)

// Item is one external test question tagged with its subject.
type Item struct {
	Mapel    string
	Question bank.Question
}

// MapelAccuracy is the per-subject correct/total pair.
type MapelAccuracy struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Report is the evaluation outcome.
type Report struct {
	Total      int                       `json:"total"`
	Correct    int                       `json:"correct"`
	Accuracy   float64                   `json:"accuracy"`
	CILow      float64                   `json:"ci_low"`
	CIHigh     float64                   `json:"ci_high"`
	PerMapel   map[string]*MapelAccuracy `json:"per_mapel"`
	Confusion  map[string]int            `json:"confusion"`
	OverlapIDs []string                  `json:"overlap_ids,omitempty"`
}

// NormalizeText collapses whitespace and case for duplicate detection.
func NormalizeText(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// TrainingTexts collects the normalized text of every training question.
// Broken training banks are skipped, not fatal.
func TrainingTexts(loader *bank.Loader) map[string]struct{} {
	seen := map[string]struct{}{}
	banks, _ := loader.LoadAll()
	for _, b := range banks {
		for _, q := range b.Soal {
			if t := NormalizeText(q.Text); t != "" {
				seen[t] = struct{}{}
			}
		}
	}
	return seen
}

// WalkTests loads every *.json bank under dir as external test items.
func WalkTests(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read test dir: %w", err)
	}
	var items []Item
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read test bank %s: %w", name, err)
		}
		b, err := bank.ParseBank(strings.TrimSuffix(name, ".json"), raw)
		if err != nil {
			return nil, err
		}
		for _, q := range b.Soal {
			items = append(items, Item{Mapel: b.Mapel, Question: q})
		}
	}
	return items, nil
}

// Evaluate runs the predictor over every item. training may be nil; when
// given, items whose normalized text already occurs in the training
// banks are recorded as overlap but still scored.
func Evaluate(ctx context.Context, items []Item, p predict.Predictor, training map[string]struct{}, rng *rand.Rand) (*Report, error) {
	rep := &Report{
		PerMapel:  map[string]*MapelAccuracy{},
		Confusion: map[string]int{},
	}
	var hits []int
	for _, it := range items {
		q := it.Question
		raw, err := p.Predict(ctx, predict.Input{
			Text:    q.Text,
			Options: q.Options,
			Mapel:   it.Mapel,
			Topik:   q.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("predict %s/%s: %w", it.Mapel, q.ID, err)
		}
		pred := predict.SafeChoice(raw)
		truth := score.NormalizeChoice(q.Key)

		if training != nil {
			if _, dup := training[NormalizeText(q.Text)]; dup {
				rep.OverlapIDs = append(rep.OverlapIDs, fmt.Sprintf("%s/%s", it.Mapel, q.ID))
			}
		}

		rep.Total++
		pm := rep.PerMapel[it.Mapel]
		if pm == nil {
			pm = &MapelAccuracy{}
			rep.PerMapel[it.Mapel] = pm
		}
		pm.Total++

		hit := 0
		if truth != "" && pred == truth {
			hit = 1
			rep.Correct++
			pm.Correct++
		}
		hits = append(hits, hit)
		rep.Confusion[confusionKey(truth, pred)]++
	}

	rep.Accuracy, rep.CILow, rep.CIHigh = bootstrapCI(hits, 2000, rng)
	return rep, nil
}

func confusionKey(truth, pred string) string {
	if truth == "" {
		truth = "-"
	}
	if pred == "" {
		pred = "-"
	}
	return truth + ">" + pred
}

// bootstrapCI resamples the hit vector to a 95% interval, all values in
// percent. The caller's generator keeps the interval reproducible.
func bootstrapCI(hits []int, nBoot int, rng *rand.Rand) (acc, lo, hi float64) {
	if len(hits) == 0 {
		return 0, 0, 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(42))
	}
	n := len(hits)
	sum := 0
	for _, h := range hits {
		sum += h
	}
	acc = 100.0 * float64(sum) / float64(n)

	samples := make([]float64, nBoot)
	for b := 0; b < nBoot; b++ {
		s := 0
		for i := 0; i < n; i++ {
			s += hits[rng.Intn(n)]
		}
		samples[b] = float64(s) / float64(n)
	}
	sort.Float64s(samples)
	lo = 100.0 * samples[int(0.025*float64(nBoot-1))]
	hi = 100.0 * samples[int(0.975*float64(nBoot-1))]
	return acc, lo, hi
}
