package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette: default foreground for primary text, an optional accent for
// headers and identifiers, gray for secondary info. Status is conveyed with
// symbols, not color.

var (
	// Accent highlights table names, column names and headers.
	Accent = lipgloss.NewStyle()

	// Muted is for secondary info, types and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Bold is for emphasis.
	Bold = lipgloss.NewStyle().Bold(true)

	accentColor string
)

// ConfigureTheme sets the accent color from config. Accepts ANSI codes
// ("0" to "255") and hex colors ("#RRGGBB" or "#RGB"); anything else, or
// "none", turns the accent off.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

func normalizeAccentColor(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(value, "#") {
		hex := value[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return value, true
}
