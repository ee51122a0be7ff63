package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"

	"learncheck/internal/answerlog"
	"learncheck/internal/remedial"
	"learncheck/internal/score"
)

// RunRemedial scores one student's history out of the answer log and
// prints the per-subject per-topic remedial analysis as JSON.
func RunRemedial(e *Env, args []string) error {
	fs := flag.NewFlagSet("remedial", flag.ContinueOnError)
	studentFlag := fs.String("student", "", "student id to analyze")
	thresholdFlag := fs.Float64("threshold", e.Cfg.RemedialThreshold, "remedial percentage cutoff")
	inFlag := fs.String("in", filepath.Join(e.Cfg.JawabanDir, "siswa_jawaban.csv"), "answers CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *studentFlag == "" {
		return fmt.Errorf("remedial: -student is required")
	}

	gen := e.catalog().Snapshot()
	recs, err := answerlog.ReadRecords(*inFlag)
	if err != nil {
		return err
	}

	answers := make([]remedial.StudentAnswer, 0, len(recs))
	for _, rec := range recs {
		ctx, sub := score.ParseLogRecord(rec)
		item := score.Score(sub, gen.Index)
		answers = append(answers, remedial.StudentAnswer{
			StudentID: ctx.StudentID,
			Mapel:     item.Mapel,
			Topik:     item.Topik,
			Correct:   item.Correct,
		})
	}

	analysis := remedial.AnalyzeStudent(answers, *studentFlag, *thresholdFlag)
	b, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
