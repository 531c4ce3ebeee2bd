// Package color provides minimal ANSI color output for the CLI.
package color

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

// ANSI color codes
const (
	reset = "\033[0m"

	// Foreground colors
	FgRed    = 31
	FgGreen  = 32
	FgYellow = 33
	FgCyan   = 36
	FgWhite  = 37

	// Attributes
	Bold = 1
)

// NoColor disables color output (set automatically when NO_COLOR is
// present, per the informal convention).
var NoColor = os.Getenv("NO_COLOR") != ""

// Color represents a text color configuration
type Color struct {
	params []int
}

// New creates a new Color with the given attributes
func New(attrs ...int) *Color {
	return &Color{params: attrs}
}

// format returns the ANSI escape sequence for this color
func (c *Color) format() string {
	if len(c.params) == 0 || NoColor {
		return ""
	}

	seq := "\033["
	for i, param := range c.params {
		if i > 0 {
			seq += ";"
		}
		seq += strconv.Itoa(param)
	}
	seq += "m"
	return seq
}

func (c *Color) wrap(s string) string {
	prefix := c.format()
	if prefix == "" {
		return s
	}
	return prefix + s + reset
}

// Printf prints formatted output with color to stdout
func (c *Color) Printf(format string, a ...interface{}) {
	fmt.Print(c.wrap(fmt.Sprintf(format, a...)))
}

// Fprintf prints formatted output with color to the given writer
func (c *Color) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.wrap(fmt.Sprintf(format, a...)))
}

// Sprintf returns a formatted colored string
func (c *Color) Sprintf(format string, a ...interface{}) string {
	return c.wrap(fmt.Sprintf(format, a...))
}
