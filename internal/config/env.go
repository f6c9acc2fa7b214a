package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as time.Duration, or the default value
// if not set or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of the named flags was set on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envOverride binds one environment variable to the flags it stands in for.
type envOverride struct {
	key   string
	flags []string
	apply func(c *AppConfig)
}

// envOverrides lists every supported variable. Priority is
// CLI flags > environment variables > defaults.
var envOverrides = []envOverride{
	{"N", []string{"n"}, func(c *AppConfig) { c.N = getEnvInt("N", c.N) }},
	{"SEQ", []string{"seq"}, func(c *AppConfig) { c.Sequence = getEnvString("SEQ", c.Sequence) }},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig) { c.Timeout = getEnvDuration("TIMEOUT", c.Timeout) }},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig) { c.OutputFile = getEnvString("OUTPUT", c.OutputFile) }},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig) { c.Quiet = getEnvBool("QUIET", c.Quiet) }},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig) { c.NoColor = getEnvBool("NO_COLOR", c.NoColor) }},
	{"DEBUG", []string{"debug"}, func(c *AppConfig) { c.Debug = getEnvBool("DEBUG", c.Debug) }},
	{"SERVER", []string{"server"}, func(c *AppConfig) { c.ServerMode = getEnvBool("SERVER", c.ServerMode) }},
	{"PORT", []string{"port"}, func(c *AppConfig) { c.Port = getEnvString("PORT", c.Port) }},
	{"MAX_N", []string{"max-n"}, func(c *AppConfig) { c.MaxN = getEnvInt("MAX_N", c.MaxN) }},
	{"CONCURRENCY", []string{"concurrency"}, func(c *AppConfig) { c.Concurrency = getEnvInt("CONCURRENCY", c.Concurrency) }},
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if !isFlagSet(fs, o.flags...) {
			o.apply(config)
		}
	}
}
