package theme

import "fmt"

// DarkMode selects how the dark variant is expressed in CSS.
type DarkMode string

const (
	// DarkModeClass scopes dark utilities under a .dark ancestor.
	DarkModeClass DarkMode = "class"
	// DarkModeMedia wraps dark utilities in prefers-color-scheme.
	DarkModeMedia DarkMode = "media"
)

// ParseDarkMode validates a configured strategy. Empty selects media.
func ParseDarkMode(s string) (DarkMode, error) {
	switch DarkMode(s) {
	case "":
		return DarkModeMedia, nil
	case DarkModeClass, DarkModeMedia:
		return DarkMode(s), nil
	default:
		return "", fmt.Errorf("invalid darkMode %q (want %q or %q)", s, DarkModeClass, DarkModeMedia)
	}
}
