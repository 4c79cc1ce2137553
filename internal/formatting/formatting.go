// Package formatting holds the ANSI styles used in fixture reports.
package formatting

import "github.com/fatih/color"

// Scope is a terminal style applied to a whole line.
type Scope struct {
	c *color.Color
}

func newScope(attrs ...color.Attribute) Scope {
	c := color.New(attrs...)
	// Reports decide on colour themselves, independent of stdout.
	c.EnableColor()
	return Scope{c: c}
}

var (
	// Header marks the "Expected result:" and "Obtained result:" lines.
	Header = newScope(color.Bold, color.FgCyan)
	// Mismatch marks result lines that differ from the expectation.
	Mismatch = newScope(color.BgRed)
	// Pass and Fail colour the summary verdicts.
	Pass = newScope(color.FgGreen)
	Fail = newScope(color.Bold, color.FgRed)
)

// Wrap styles text if formatted is set and returns it unchanged otherwise.
func (s Scope) Wrap(formatted bool, text string) string {
	if !formatted {
		return text
	}
	return s.c.Sprint(text)
}
