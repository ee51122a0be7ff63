package cli

import (
	"context"
	"flag"
	"fmt"

	"learncheck/internal/store"
)

// RunExportDB pushes one subject's normalized bank into the questions
// database used by the authoring backend.
func RunExportDB(e *Env, args []string) error {
	fs := flag.NewFlagSet("export-db", flag.ContinueOnError)
	mapelFlag := fs.String("mapel", "", "subject bank to export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mapelFlag == "" {
		return fmt.Errorf("export-db: -mapel is required")
	}

	b, err := e.loader().LoadBank(*mapelFlag)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, e.Cfg.DBDSN, store.DefaultConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.InsertBank(ctx, b)
	if err != nil {
		return fmt.Errorf("export %s after %d question(s): %w", b.Mapel, n, err)
	}
	e.Log.Infow("bank exported", "mapel", b.Mapel, "questions", n)

	latest, err := st.ListLatest(ctx, 5)
	if err != nil {
		return err
	}
	for _, q := range latest {
		fmt.Printf("%d\t%s\t%s\t%s\n", q.ID, q.Mapel, q.Topic, q.SourceID)
	}
	return nil
}
