package main

import (
	"github.com/fatih/color"
)

// Status values shown in the compare table.
const (
	statusReference = "reference"
	statusMatch     = "match"
	statusDiffers   = "differs"
)

// palette holds the color printers of one command invocation. Disabling
// color on a palette leaves the package-level color.NoColor untouched.
type palette struct {
	bold  func(a ...any) string
	dim   func(a ...any) string
	green func(a ...any) string
	red   func(a ...any) string
}

func newPalette(noColor bool) palette {
	printer := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		bold:  printer(color.Bold),
		dim:   printer(color.Faint),
		green: printer(color.FgGreen),
		red:   printer(color.FgRed),
	}
}

// status decorates a compare status with a marker and its color.
func (p palette) status(s string) string {
	switch s {
	case statusMatch:
		return p.green("✔ " + s)
	case statusDiffers:
		return p.red("✘ " + s)
	default:
		return p.dim(s)
	}
}
