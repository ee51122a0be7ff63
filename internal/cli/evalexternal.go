package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"learncheck/internal/evalx"
	"learncheck/internal/predict"
)

// RunEvalExternal measures a predictor on external test banks that must
// not overlap the training data, and writes the JSON report.
func RunEvalExternal(e *Env, args []string) error {
	fs := flag.NewFlagSet("eval-external", flag.ContinueOnError)
	testDir := fs.String("test-dir", filepath.Join("evaluation", "external"), "directory of external *.json test banks")
	adapter := fs.String("adapter", "random", "prediction source: random or http")
	endpoint := fs.String("endpoint", e.Cfg.PredictEndpoint, "model endpoint for -adapter http")
	seedFlag := fs.Int64("seed", 123, "seed for the baseline and the bootstrap CI")
	outFlag := fs.String("out", filepath.Join("evaluation", "reports", "external_report.json"), "report path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seedFlag))
	var predictor predict.Predictor
	switch *adapter {
	case "random":
		predictor = predict.NewRandom(rng)
	case "http":
		if *endpoint == "" {
			return fmt.Errorf("eval-external: -endpoint is required with -adapter http")
		}
		predictor = predict.NewHTTP(*endpoint)
	default:
		return fmt.Errorf("eval-external: unknown adapter %q", *adapter)
	}

	items, err := evalx.WalkTests(*testDir)
	if err != nil {
		return err
	}
	training := evalx.TrainingTexts(e.loader())

	rep, err := evalx.Evaluate(context.Background(), items, predictor, training, rng)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(*outFlag), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(*outFlag, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	e.Log.Infow("external evaluation done",
		"items", rep.Total,
		"accuracy", fmt.Sprintf("%.2f%%", rep.Accuracy),
		"ci", fmt.Sprintf("[%.2f%%, %.2f%%]", rep.CILow, rep.CIHigh),
		"overlap", len(rep.OverlapIDs),
	)
	return nil
}
