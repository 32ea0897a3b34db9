package color

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"
)

const (
	noColorEnv = "NO_COLOR"
	themeEnv   = "RELAYCTL_THEME"
)

// For mocking in tests
var lookupEnv = os.LookupEnv

// Initialize sets the background lipgloss resolves AdaptiveColor against.
func Initialize(isDarkMode bool) {
	lipgloss.SetHasDarkBackground(isDarkMode)
}

// Configure applies the environment: NO_COLOR turns colors off for lipgloss
// and go-pretty, RELAYCTL_THEME overrides the detected background.
func Configure() {
	if v, ok := lookupEnv(noColorEnv); ok && v != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		text.DisableColors()
	}

	if theme, ok := lookupEnv(themeEnv); ok {
		switch strings.ToLower(strings.TrimSpace(theme)) {
		case "dark":
			Initialize(true)
		case "light":
			Initialize(false)
		}
	}
}
