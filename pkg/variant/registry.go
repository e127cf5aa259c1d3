package variant

import (
	"fmt"

	"github.com/gnana997/twgen/pkg/theme"
)

// Contributor is a plugin capability that registers extra modifiers.
type Contributor interface {
	Name() string
	ContributeVariants(t *theme.Theme) []Modifier
}

// Registry maps variant names to modifiers.
//
// **Thread Safety:** populate with Register before sharing; lookups are
// read-only afterwards and safe for concurrent use.
type Registry struct {
	mods  map[string]Modifier
	order []string
}

// NewRegistry registers the built-in modifiers for t (its screens and dark
// mode strategy), then each contributor's modifiers in order.
func NewRegistry(t *theme.Theme, contributors ...Contributor) (*Registry, error) {
	r := &Registry{mods: make(map[string]Modifier)}

	for _, m := range pseudoModifiers() {
		r.Register(m)
	}
	r.Register(Parent("group-hover", ".group:hover "))
	r.Register(Parent("group-focus", ".group:focus "))
	r.Register(Parent("peer-hover", ".peer:hover ~ "))
	r.Register(Parent("peer-focus", ".peer:focus ~ "))
	r.Register(Parent("peer-checked", ".peer:checked ~ "))

	r.Register(Media("motion-safe", "(prefers-reduced-motion:no-preference)"))
	r.Register(Media("motion-reduce", "(prefers-reduced-motion:reduce)"))

	switch t.DarkMode() {
	case theme.DarkModeClass:
		r.Register(Parent("dark", ".dark "))
	default:
		r.Register(Media("dark", "(prefers-color-scheme:dark)"))
	}
	r.Register(Media("print", "print"))

	for _, s := range t.Screens() {
		r.Register(Breakpoint(s.Name, s.MinWidth))
	}

	for _, c := range contributors {
		for _, m := range c.ContributeVariants(t) {
			if m.Name == "" || m.Wrap == nil {
				return nil, fmt.Errorf("plugin %s: variant must have a name and a wrap function", c.Name())
			}
			r.Register(m)
		}
	}
	return r, nil
}

func pseudoModifiers() []Modifier {
	return []Modifier{
		Pseudo("placeholder", "::placeholder"),
		Pseudo("selection", "::selection"),
		Pseudo("first", ":first-child"),
		Pseudo("last", ":last-child"),
		Pseudo("only", ":only-child"),
		Pseudo("odd", ":nth-child(odd)"),
		Pseudo("even", ":nth-child(even)"),
		Pseudo("first-of-type", ":first-of-type"),
		Pseudo("last-of-type", ":last-of-type"),
		Pseudo("empty", ":empty"),
		Pseudo("visited", ":visited"),
		Pseudo("checked", ":checked"),
		Pseudo("required", ":required"),
		Pseudo("invalid", ":invalid"),
		Pseudo("read-only", ":read-only"),
		Pseudo("focus-within", ":focus-within"),
		Pseudo("hover", ":hover"),
		Pseudo("focus", ":focus"),
		Pseudo("focus-visible", ":focus-visible"),
		Pseudo("active", ":active"),
		Pseudo("enabled", ":enabled"),
		Pseudo("disabled", ":disabled"),
	}
}

// Register adds m, replacing any modifier of the same name. A replacement
// keeps the original rank.
func (r *Registry) Register(m Modifier) {
	if prev, ok := r.mods[m.Name]; ok {
		m.rank = prev.rank
	} else {
		m.rank = len(r.order)
		r.order = append(r.order, m.Name)
	}
	r.mods[m.Name] = m
}

// Lookup returns the modifier called name.
func (r *Registry) Lookup(name string) (Modifier, bool) {
	m, ok := r.mods[name]
	return m, ok
}

// Names returns variant names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Parse splits token into its modifiers and base class name. Colons inside
// brackets do not separate variants. An unknown prefix yields
// *UnknownVariantError.
func (r *Registry) Parse(token string) ([]Modifier, string, error) {
	names, base := Split(token)
	if base == "" {
		return nil, "", &UnknownVariantError{Variant: "", Token: token}
	}
	mods := make([]Modifier, 0, len(names))
	for _, n := range names {
		m, ok := r.mods[n]
		if !ok {
			return nil, "", &UnknownVariantError{Variant: n, Token: token}
		}
		mods = append(mods, m)
	}
	return mods, base, nil
}

// Split separates "md:hover:bg-x" into ["md", "hover"] and "bg-x".
func Split(token string) (variants []string, base string) {
	depth := 0
	start := 0
	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				variants = append(variants, token[start:i])
				start = i + 1
			}
		}
	}
	return variants, token[start:]
}
