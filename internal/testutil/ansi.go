// Package testutil holds helpers shared by the test suites.
package testutil

import "regexp"

// ansiRegex matches CSI escape sequences such as the SGR color codes of the
// terminal themes ("\x1b[38;5;82m", "\x1b[0m").
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes terminal escape sequences so that status output can
// be compared as plain text.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
