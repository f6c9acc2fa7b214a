// Package app wires configuration, table building, output and the HTTP server
// into the seqtable command. It also carries the build version.
package app

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/agbru/seqtable/internal/app.Version=v1.2.3 \
//	  -X github.com/agbru/seqtable/internal/app.Commit=abc123 \
//	  -X github.com/agbru/seqtable/internal/app.BuildDate=2025-01-01T00:00:00Z"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// versionFlags are recognized anywhere on the command line, before regular
// flag parsing, so that "seqtable 10 -seq fact --version" still prints the
// version instead of a table.
var versionFlags = map[string]bool{"--version": true, "-version": true, "-V": true}

// HasVersionFlag reports whether args request the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if versionFlags[arg] {
			return true
		}
	}
	return false
}

// PrintVersion writes the build metadata and the sequences this binary can
// tabulate.
func PrintVersion(out io.Writer, sequences []string) {
	fmt.Fprintf(out, "seqtable %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	fmt.Fprintf(out, "  runtime:   %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if len(sequences) == 0 {
		fmt.Fprintf(out, "  sequences: none\n")
		return
	}
	fmt.Fprintf(out, "  sequences: %s\n", strings.Join(sequences, ", "))
}
