package variant

import (
	"fmt"
	"strconv"
)

// Kind classifies how a modifier conditions a rule.
type Kind int

const (
	// PseudoClass appends a pseudo-class or pseudo-element to the selector.
	PseudoClass Kind = iota
	// MediaBreakpoint applies the rule from a minimum viewport width.
	MediaBreakpoint
	// ParentState requires a marked ancestor or sibling in a given state.
	ParentState
	// MediaFeature wraps the rule in a non-breakpoint media query.
	MediaFeature
)

func (k Kind) String() string {
	switch k {
	case PseudoClass:
		return "pseudo-class"
	case MediaBreakpoint:
		return "media-breakpoint"
	case ParentState:
		return "parent-state"
	case MediaFeature:
		return "media-feature"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Target is the selector and wrappers a rule is emitted under.
type Target struct {
	// Selector is the class selector with any qualifiers applied.
	Selector string

	// AtRules wrap the rule, outermost first.
	AtRules []string

	Breakpoint string
	MinWidth   float64
}

// Modifier is a named variant. Wrap qualifies a target; modifiers compose
// by nesting, the rightmost prefix of a token closest to the base.
type Modifier struct {
	Name string
	Kind Kind
	Wrap func(Target) Target

	// rank is the registration position, assigned by the Registry.
	rank int
}

// Pseudo returns a modifier appending suffix (":hover", "::placeholder").
func Pseudo(name, suffix string) Modifier {
	return Modifier{Name: name, Kind: PseudoClass, Wrap: func(t Target) Target {
		t.Selector += suffix
		return t
	}}
}

// Parent returns a modifier that scopes the selector under marker, e.g.
// ".group:hover " or ".peer:focus ~ ".
func Parent(name, marker string) Modifier {
	return Modifier{Name: name, Kind: ParentState, Wrap: func(t Target) Target {
		t.Selector = marker + t.Selector
		return t
	}}
}

// Breakpoint returns a min-width modifier. Nested breakpoints resolve to
// the widest one.
func Breakpoint(name string, minWidth float64) Modifier {
	return Modifier{Name: name, Kind: MediaBreakpoint, Wrap: func(t Target) Target {
		if minWidth >= t.MinWidth {
			t.Breakpoint = name
			t.MinWidth = minWidth
		}
		return t
	}}
}

// Media returns a modifier wrapping the rule in "@media <query>".
func Media(name, query string) Modifier {
	atRule := "@media " + query
	return Modifier{Name: name, Kind: MediaFeature, Wrap: func(t Target) Target {
		t.AtRules = append([]string{atRule}, t.AtRules...)
		return t
	}}
}

// MinWidthQuery renders a breakpoint media query prelude.
func MinWidthQuery(px float64) string {
	return fmt.Sprintf("@media (min-width:%spx)", strconv.FormatFloat(px, 'f', -1, 64))
}
