// Package testutil holds helpers shared by the package tests.
package testutil

import "regexp"

// escapes matches the CSI sequences the terminal UI writes: SGR colors
// like "\x1b[38;5;82m", line erase "\x1b[K" and the spinner's private
// cursor modes "\x1b[?25l" and "\x1b[?25h".
var escapes = regexp.MustCompile(`\x1b\[\??[0-9;]*[@-~]`)

// StripAnsiCodes returns s without terminal escape sequences, so that
// tests can match rendered output as plain text.
func StripAnsiCodes(s string) string {
	return escapes.ReplaceAllString(s, "")
}
