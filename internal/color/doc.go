// Package color decides whether relayctl output is colored and which theme
// the TUI uses.
//
// Respected environment variables:
//   - NO_COLOR: disable all color output, in the TUI and in plan tables
//   - RELAYCTL_THEME: force "dark" or "light" instead of terminal detection
package color
