package main

import (
	"context"
	"os"

	"github.com/agbru/seqtable/internal/app"
	"github.com/agbru/seqtable/internal/sequence"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout, sequence.DefaultRegistry().List())
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		os.Exit(app.ExitCodeFor(err))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
