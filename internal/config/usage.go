package config

import (
	"flag"
	"fmt"
)

// setCustomUsage replaces the default flag listing with a grouped help text.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		out := fs.Output()
		name := fs.Name()
		fmt.Fprintf(out, "Usage: %s [flags] [count ...]\n\n", name)
		fmt.Fprintf(out, "Prints the first <count> terms of a sequence as a markdown table.\n")
		fmt.Fprintf(out, "One table is written per count; without counts, -n is used.\n")
		fmt.Fprintf(out, "Flags may follow counts; arguments after -- are always counts.\n\n")

		groups := []struct {
			title string
			flags []string
		}{
			{"Tables", []string{"seq", "n", "timeout", "concurrency"}},
			{"Output", []string{"output", "quiet", "no-color", "debug"}},
			{"Server", []string{"server", "port", "max-n"}},
			{"Misc", []string{"completion"}},
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s:\n", g.title)
			for _, name := range g.flags {
				f := fs.Lookup(name)
				if f == nil {
					continue
				}
				if f.DefValue != "" && f.DefValue != "false" {
					fmt.Fprintf(out, "  -%-14s %s (default %s)\n", f.Name, f.Usage, f.DefValue)
				} else {
					fmt.Fprintf(out, "  -%-14s %s\n", f.Name, f.Usage)
				}
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "Shorthands: -o for -output, -q for -quiet. -version prints build information.\n")
		fmt.Fprintf(out, "Environment variables prefixed with %s override unset flags (e.g. %sN=20).\n\n", EnvPrefix, EnvPrefix)
		fmt.Fprintf(out, "Examples:\n")
		fmt.Fprintf(out, "  %s 10\n", name)
		fmt.Fprintf(out, "  %s -seq factorial 5 20\n", name)
		fmt.Fprintf(out, "  %s -seq all -o tables.md 100\n", name)
		fmt.Fprintf(out, "  %s 5 10 -seq fact\n", name)
	}
}
