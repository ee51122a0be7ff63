package evalx

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"learncheck/internal/bank"
	"learncheck/internal/predict"
)

// keyed answers every question with its own key, the perfect predictor.
type keyed struct{}

func (keyed) Predict(_ context.Context, in predict.Input) (string, error) {
	for _, l := range bank.ChoiceLetters {
		if in.Options[l] == "benar" {
			return l, nil
		}
	}
	return "", nil
}

func testItems() []Item {
	mk := func(id, key, text string) bank.Question {
		opts := map[string]string{"A": "salah", "B": "salah", "C": "salah", "D": "salah", "E": ""}
		opts[key] = "benar"
		return bank.Question{ID: id, Text: text, Options: opts, Key: key, Weight: 1}
	}
	return []Item{
		{Mapel: "ipa", Question: mk("ipa-0001", "B", "Apa itu gaya?")},
		{Mapel: "ipa", Question: mk("ipa-0002", "C", "Apa itu energi?")},
		{Mapel: "mtk", Question: mk("mtk-0001", "A", "Berapa 2+2?")},
	}
}

func TestEvaluatePerfectPredictor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rep, err := Evaluate(context.Background(), testItems(), keyed{}, nil, rng)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rep.Total != 3 || rep.Correct != 3 {
		t.Fatalf("expected 3/3, got %d/%d", rep.Correct, rep.Total)
	}
	if rep.Accuracy != 100 || rep.CILow != 100 || rep.CIHigh != 100 {
		t.Fatalf("constant hits must give a degenerate CI: %+v", rep)
	}
	if pm := rep.PerMapel["ipa"]; pm == nil || pm.Correct != 2 || pm.Total != 2 {
		t.Fatalf("unexpected per-mapel %+v", rep.PerMapel)
	}
	if rep.Confusion["B>B"] != 1 || rep.Confusion["C>C"] != 1 || rep.Confusion["A>A"] != 1 {
		t.Fatalf("unexpected confusion %v", rep.Confusion)
	}
}

func TestEvaluateOverlapDetection(t *testing.T) {
	training := map[string]struct{}{
		NormalizeText("  Apa   itu GAYA? "): {},
	}
	rng := rand.New(rand.NewSource(1))
	rep, err := Evaluate(context.Background(), testItems(), keyed{}, training, rng)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(rep.OverlapIDs) != 1 || rep.OverlapIDs[0] != "ipa/ipa-0001" {
		t.Fatalf("expected one overlap, got %v", rep.OverlapIDs)
	}
	if rep.Correct != 3 {
		t.Fatalf("overlap items are still scored, got %d", rep.Correct)
	}
}

func TestEvaluateBootstrapDeterministic(t *testing.T) {
	items := testItems()
	always := predict.NewRandom(rand.New(rand.NewSource(9)))

	repA, err := Evaluate(context.Background(), items, always, nil, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	repB, err := Evaluate(context.Background(), items, predict.NewRandom(rand.New(rand.NewSource(9))), nil, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if repA.Accuracy != repB.Accuracy || repA.CILow != repB.CILow || repA.CIHigh != repB.CIHigh {
		t.Fatalf("same seeds must reproduce the CI: %+v vs %+v", repA, repB)
	}
	if repA.CILow > repA.Accuracy || repA.CIHigh < repA.Accuracy {
		t.Fatalf("interval must bracket the accuracy: %+v", repA)
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  Apa\titu   GAYA? "); got != "apa itu gaya?" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestWalkTests(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ipa_test.json"), []byte(`[{"teks":"q1","kunci":"A"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	items, err := WalkTests(dir)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Mapel != "ipa_test" || items[0].Question.ID != "ipa_test-0001" {
		t.Fatalf("unexpected item %+v", items[0])
	}
}
