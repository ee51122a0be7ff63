package cli

import (
	"flag"
	"path/filepath"

	"learncheck/internal/answerlog"
	"learncheck/internal/remedial"
	"learncheck/internal/report"
	"learncheck/internal/score"
)

// RunEvaluate scores the whole answer log and writes every artifact:
// scored CSV, the four rollups, the gradebook in CSV/JSON/Excel and the
// remedial flags JSON.
func RunEvaluate(e *Env, args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	inFlag := fs.String("in", filepath.Join(e.Cfg.JawabanDir, "siswa_jawaban.csv"), "answers CSV to score")
	outFlag := fs.String("out-dir", filepath.Join(e.Cfg.JawabanDir, "out"), "artifact output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return evaluatePipeline(e, *inFlag, *outFlag)
}

func evaluatePipeline(e *Env, inPath, outDir string) error {
	gen := e.catalog().Snapshot()

	recs, err := answerlog.ReadRecords(inPath)
	if err != nil {
		return err
	}

	entries := make([]score.Entry, 0, len(recs))
	for _, rec := range recs {
		ctx, sub := score.ParseLogRecord(rec)
		entries = append(entries, score.Entry{Context: ctx, Item: score.Score(sub, gen.Index)})
	}

	agg := score.NewAggregator()
	agg.AddBatch(entries)

	if err := report.WriteScoredCSV(filepath.Join(outDir, "siswa_jawaban_scored.csv"), entries); err != nil {
		return err
	}
	if err := report.WriteRollupCSVs(outDir, agg); err != nil {
		return err
	}
	if err := report.WriteGradebookCSV(filepath.Join(e.Cfg.JawabanDir, "gradebook.csv"), agg); err != nil {
		return err
	}
	if err := report.WriteGradebookJSON(filepath.Join(e.Cfg.JawabanDir, "gradebook.json"), agg); err != nil {
		return err
	}
	if err := report.WriteGradebookExcel(filepath.Join(e.Cfg.JawabanDir, "gradebook.xlsx"), agg); err != nil {
		return err
	}

	flags := remedial.FlagSubjects(agg.MapelPercent(), e.Cfg.RemedialThreshold)
	if err := report.WriteRemedialJSON(filepath.Join(e.Cfg.JawabanDir, "remedial_for_guru.json"), flags); err != nil {
		return err
	}

	e.Log.Infow("evaluation done",
		"answers", len(entries),
		"subjects", len(agg.PerMapel),
		"gradebook_rows", len(agg.Gradebook),
		"remedial_subjects", len(flags),
	)
	return nil
}
