package theme

import "strings"

// Value is one resolved token value.
type Value struct {
	// Raw is the CSS text of the value as configured.
	Raw string

	// List holds multi-part values: the font stack for fontFamily,
	// [size, line-height] for fontSize.
	List []string

	// Animation is set for animation tokens other than "none".
	Animation *Animation

	// Pixels is the min-width in pixels for screens.
	Pixels float64
}

// Animation is the structured form of an animation shorthand.
type Animation struct {
	Name           string
	Duration       string
	TimingFunction string
	Delay          string
	IterationCount string
	Extra          []string
}

// CSS renders the value as a declaration value.
func (v Value) CSS() string {
	switch {
	case v.Animation != nil:
		return v.Animation.CSS()
	case len(v.List) > 0 && v.Raw == "":
		return strings.Join(v.List, ", ")
	default:
		return v.Raw
	}
}

// LineHeight returns the paired line height of a fontSize token.
func (v Value) LineHeight() (string, bool) {
	if len(v.List) < 2 || v.List[1] == "" {
		return "", false
	}
	return v.List[1], true
}

// CSS renders the shorthand in canonical order.
func (a *Animation) CSS() string {
	parts := []string{a.Name}
	for _, p := range []string{a.Duration, a.TimingFunction, a.Delay, a.IterationCount} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, a.Extra...)
	return strings.Join(parts, " ")
}

// quoteFamily wraps family names containing spaces in double quotes.
func quoteFamily(name string) string {
	name = strings.TrimSpace(name)
	if strings.ContainsAny(name, " \t") && !strings.HasPrefix(name, `"`) && !strings.HasPrefix(name, "'") {
		return `"` + name + `"`
	}
	return name
}
