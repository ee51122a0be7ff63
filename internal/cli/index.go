package cli

import (
	"flag"
	"path/filepath"

	"learncheck/internal/materi"
)

// RunIndex rebuilds the materi index from the taxonomy and the material
// files, writing materi_index.json plus the flat preview CSV.
func RunIndex(e *Env, args []string) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	topicIndex, err := e.loader().LoadTopicIndex()
	if err != nil {
		return err
	}
	alias := materi.LoadAlias(filepath.Join(e.Cfg.MappingDir, "topic_alias.csv"))

	idx := materi.BuildIndex(e.Cfg.MateriDir, topicIndex, alias)
	if err := materi.SaveIndex(idx, filepath.Join(e.Cfg.MappingDir, "materi_index.json")); err != nil {
		return err
	}
	if err := materi.WriteIndexCSV(idx, filepath.Join(e.Cfg.MappingDir, "materi_index.csv")); err != nil {
		return err
	}
	e.Log.Infow("materi index built", "subjects", len(idx))
	return nil
}
