// Package detector selects how output is colored based on the environment.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/retest/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode is the coloring mode for command output.
type OutputMode int

const (
	// ModeAuto chooses a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTerminal uses the full color profile of the terminal.
	ModeTerminal
	// ModeCI uses basic ANSI colors for log viewers that render them.
	ModeCI
	// ModePlain disables colors.
	ModePlain
)

// DetectEnvironment returns the recommended output mode for the stream with file descriptor fd.
func DetectEnvironment(fd uintptr) OutputMode {
	ci := os.Getenv("CI")
	if ci == "true" || ci == "1" {
		return ModeCI
	}
	if !term.IsTerminal(int(fd)) { //nolint:gosec // File descriptors fit in int
		return ModePlain
	}
	return ModeTerminal
}

// ResolveMode applies a user override to the detected mode.
// userFlag should be one of: "auto", "color", "ci", "plain", or empty.
func ResolveMode(detected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "color":
		return ModeTerminal
	case "ci":
		return ModeCI
	case "plain":
		return ModePlain
	default:
		return detected
	}
}

// Profile returns the color profile selector for mode.
func Profile(mode OutputMode) func() termenv.Profile {
	switch mode {
	case ModeCI:
		return output.ColorProfileANSI
	case ModePlain:
		return func() termenv.Profile { return termenv.Ascii }
	default:
		return output.ColorProfile
	}
}
