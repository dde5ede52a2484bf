package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Brand accents used by headers.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// Color modes accepted by --color and the color config key.
const (
	ColorModeAuto   = "auto"
	ColorModeAlways = "always"
	ColorModeNever  = "never"
)

// SetupColor picks the lipgloss color profile for mode and reports whether
// output is monochrome. In auto mode the profile comes from the terminal
// and the environment, so NO_COLOR and non-TTY output both turn color off.
func SetupColor(mode string, out io.Writer) bool {
	var profile termenv.Profile
	switch strings.ToLower(mode) {
	case ColorModeNever:
		profile = termenv.Ascii
	case ColorModeAlways:
		profile = termenv.NewOutput(out, termenv.WithUnsafe()).ColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI
		}
	default:
		profile = termenv.NewOutput(out).EnvColorProfile()
	}

	lipgloss.SetColorProfile(profile)
	return profile == termenv.Ascii
}
