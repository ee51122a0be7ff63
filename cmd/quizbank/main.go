package main

import (
	"fmt"
	"os"

	"learncheck/internal/app"
	"learncheck/internal/cli"
	"learncheck/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: quizbank <sim|evaluate|remedial|validate|index|export-db|eval-external> [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	env := &cli.Env{Cfg: cfg, Log: log}
	args := os.Args[2:]

	switch os.Args[1] {
	case "sim":
		err = cli.RunSim(env, args)
	case "evaluate":
		err = cli.RunEvaluate(env, args)
	case "remedial":
		err = cli.RunRemedial(env, args)
	case "validate":
		err = cli.RunValidate(env, args)
	case "index":
		err = cli.RunIndex(env, args)
	case "export-db":
		err = cli.RunExportDB(env, args)
	case "eval-external":
		err = cli.RunEvalExternal(env, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Errorw("command failed", "cmd", os.Args[1], "err", err)
		os.Exit(1)
	}
}
