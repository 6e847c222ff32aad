// Package sanitize makes file names safe to display in a terminal.
//
// Names come from the filesystem and from recent-files registries, so they
// may carry escape sequences, control characters or invalid UTF-8. None of
// these must reach the screen verbatim.
package sanitize

import "regexp"

// Pattern is a compiled rule applied to display text.
type Pattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string
}

// displayPatterns are applied in order after UTF-8 validation.
var displayPatterns = []Pattern{
	{
		// CSI sequences: ESC [ ... final_byte (SGR, cursor movement)
		Name:        "CSI",
		Regex:       regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`),
		Replacement: "",
	},
	{
		// OSC sequences terminated by ST or BEL (titles, hyperlinks)
		Name:        "OSC",
		Regex:       regexp.MustCompile(`\x1b\].*?(?:\x1b\\|\x07)`),
		Replacement: "",
	},
	{
		// Charset designation and other two-byte escapes
		Name:        "Two-byte escape",
		Regex:       regexp.MustCompile(`\x1b[#()*+\-./][A-Za-z0-9]`),
		Replacement: "",
	},
	{
		Name:        "Tab and newline",
		Regex:       regexp.MustCompile(`[\t\n\r\v\f]+`),
		Replacement: " ",
	},
	{
		// Remaining C0 controls, DEL and C1 controls, including stray ESC
		Name:        "Control character",
		Regex:       regexp.MustCompile(`[\x00-\x1f\x7f\x{80}-\x{9f}]`),
		Replacement: "",
	},
}

// GetDisplayPatterns returns the rules used by the default sanitizer.
func GetDisplayPatterns() []Pattern {
	return displayPatterns
}
