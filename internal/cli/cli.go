// Package cli implements the quizbank subcommands on top of the engine
// packages. Each subcommand mirrors one of the operator workflows:
// simulate a quiz, evaluate the answer log, analyze remediation,
// validate banks, build the materi index, export to the database, and
// evaluate an external predictor.
package cli

import (
	"strings"

	"go.uber.org/zap"

	"learncheck/internal/app"
	"learncheck/internal/bank"
	"learncheck/internal/catalog"
)

type Env struct {
	Cfg app.Config
	Log *zap.SugaredLogger
}

func (e *Env) loader() *bank.Loader {
	return bank.NewLoader(e.Cfg.SoalDir, e.Cfg.MappingDir)
}

func (e *Env) catalog() *catalog.Catalog {
	return catalog.New(e.loader(), e.Log)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
