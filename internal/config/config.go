// Package config provides the configuration management for the seqtable
// application. It defines the data structure for the configuration, handles
// the parsing of command-line arguments, and performs validation on the
// configuration values.
package config

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/seqtable/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by seqtable.
	EnvPrefix = "SEQTABLE_"

	// SequenceAll selects every registered sequence.
	SequenceAll = "all"
)

// Default configuration values.
const (
	// DefaultN is the number of terms tabulated when no count is given.
	DefaultN = 10
	// DefaultSequence is the sequence tabulated when -seq is not given.
	DefaultSequence = "fibonacci"
	// DefaultTimeout bounds the whole run.
	DefaultTimeout = time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMaxN is the largest count the HTTP server accepts.
	DefaultMaxN = 100_000
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags, positional arguments and environment variables.
type AppConfig struct {
	// Counts holds the positional counts, in argument order.
	Counts []int
	// N is the count used when no positional count is given.
	N int
	// Sequence is a sequence name, an alias, or "all".
	Sequence string
	// Timeout sets the maximum duration for the whole run.
	Timeout time.Duration
	// OutputFile, if set, also writes the tables to this path.
	OutputFile string
	// Quiet suppresses the spinner and the status lines.
	Quiet bool
	// NoColor disables colored status output.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// Debug lowers the log level to debug.
	Debug bool
	// ServerMode starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// MaxN caps the count accepted by the HTTP server.
	MaxN int
	// Concurrency is the number of tables built at the same time.
	Concurrency int
	// Completion, if set, generates the shell completion script for the
	// named shell ("bash", "zsh" or "fish").
	Completion string
}

// RequestedCounts returns the counts to tabulate: the positional counts if
// any were given, N otherwise.
func (c AppConfig) RequestedCounts() []int {
	if len(c.Counts) > 0 {
		return c.Counts
	}
	return []int{c.N}
}

// Validate checks the semantic consistency of the configuration parameters.
// A negative count is reported as an InvalidCount error; any other problem as
// a ConfigError.
func (c AppConfig) Validate(availableSequences []string) error {
	if c.N < 0 {
		return apperrors.NewInvalidCountError(c.N)
	}
	for _, n := range c.Counts {
		if n < 0 {
			return apperrors.NewInvalidCountError(n)
		}
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Concurrency < 1 {
		return apperrors.NewConfigError("concurrency must be at least 1: %d", c.Concurrency)
	}
	if c.MaxN < 0 {
		return apperrors.NewConfigError("max-n cannot be negative: %d", c.MaxN)
	}
	if c.Sequence != SequenceAll && !slices.Contains(availableSequences, c.Sequence) {
		return apperrors.NewConfigError("unrecognized sequence: '%s'. Valid sequences are: '%s' or [%s]",
			c.Sequence, SequenceAll, strings.Join(availableSequences, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// Flags and counts may be interleaved ("5 -seq factorial 10"). Every
// argument after a "--" terminator is a count.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableSequences: The accepted sequence names and aliases.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing, count parsing or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableSequences []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	seqHelp := fmt.Sprintf("Sequence to tabulate: '%s' or one of [%s].", SequenceAll, strings.Join(availableSequences, ", "))

	config := AppConfig{}
	fs.IntVar(&config.N, "n", DefaultN, "Number of terms when no count argument is given.")
	fs.StringVar(&config.Sequence, "seq", DefaultSequence, seqHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the tables to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: tables only, no progress or status.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Debug, "debug", false, "Enable debug logging on stderr.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxN, "max-n", DefaultMaxN, "Largest count accepted in server mode.")
	fs.IntVar(&config.Concurrency, "concurrency", runtime.GOMAXPROCS(0), "Number of tables built in parallel.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish).")

	setCustomUsage(fs)

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return AppConfig{}, err
	}

	counts, err := parseCounts(positional)
	if err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	config.Counts = counts

	applyEnvOverrides(&config, fs)

	config.Sequence = strings.ToLower(strings.TrimSpace(config.Sequence))
	if err := config.Validate(availableSequences); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// parseInterleaved runs fs.Parse repeatedly so that flags following a count
// are still recognized, and returns the positional arguments in order. A
// negative integer is kept as a positional argument so that it is reported as
// an invalid count rather than an unknown flag.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		for len(args) > 0 && isNegativeInteger(args[0]) {
			positional = append(positional, args[0])
			args = args[1:]
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func isNegativeInteger(arg string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}
	_, err := strconv.Atoi(arg)
	return err == nil
}

// parseCounts converts positional arguments to counts. Anything that is not a
// non-negative base-10 integer is an InvalidCount error.
func parseCounts(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	counts := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, apperrors.NewInvalidCountError(arg)
		}
		counts = append(counts, n)
	}
	return counts, nil
}
