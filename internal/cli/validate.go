package cli

import (
	"flag"
	"fmt"
	"sort"

	"learncheck/internal/bank"
)

// RunValidate loads every bank and reports validation issues per
// subject. Issues are advisory; a failed load is reported for its own
// subject without aborting the rest.
func RunValidate(e *Env, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	gen := e.catalog().Reload()

	issueCount := 0
	failed := make([]string, 0, len(gen.LoadErrors))
	for mapel := range gen.LoadErrors {
		failed = append(failed, mapel)
	}
	sort.Strings(failed)
	for _, mapel := range failed {
		issueCount++
		fmt.Printf("[%s] LOAD FAILED: %v\n", mapel, gen.LoadErrors[mapel])
	}

	subjects := make([]string, 0, len(gen.Banks))
	for mapel := range gen.Banks {
		subjects = append(subjects, mapel)
	}
	sort.Strings(subjects)
	for _, mapel := range subjects {
		b := gen.Banks[mapel]
		ok, errs := bank.ValidateBank(b, gen.TopicIndex)
		if ok {
			fmt.Printf("[%s] OK (%d soal)\n", mapel, len(b.Soal))
			continue
		}
		fmt.Printf("[%s] %d issue(s):\n", mapel, len(errs))
		for _, msg := range errs {
			fmt.Printf("  - %s\n", msg)
		}
		issueCount += len(errs)
	}
	if issueCount > 0 {
		return fmt.Errorf("validation found %d issue(s)", issueCount)
	}
	return nil
}
