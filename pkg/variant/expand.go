package variant

import (
	"github.com/gnana997/twgen/pkg/utility"
)

// maxRank bounds the rank bitmask.
const maxRank = 62

// Expand qualifies base with mods for the candidate token. Modifiers are
// applied right to left: in md:hover:x, hover wraps the base first and md
// wraps the result.
func Expand(base utility.Definition, token string, mods []Modifier) utility.Definition {
	d := base
	d.ClassName = token
	d.Selector = "." + utility.EscapeClass(token)
	d.AtRules = nil
	d.Breakpoint = ""
	d.MinWidth = 0
	d.VariantRank = 0

	for i := len(mods) - 1; i >= 0; i-- {
		d = Apply(d, mods[i])
	}
	return d
}

// Apply wraps an already qualified definition with one more modifier.
func Apply(d utility.Definition, m Modifier) utility.Definition {
	sel := d.Selector
	if sel == "" {
		sel = "." + utility.EscapeClass(d.ClassName)
	}
	t := m.Wrap(Target{
		Selector:   sel,
		AtRules:    append([]string(nil), d.AtRules...),
		Breakpoint: d.Breakpoint,
		MinWidth:   d.MinWidth,
	})

	d.Selector = t.Selector
	d.AtRules = t.AtRules
	d.Breakpoint = t.Breakpoint
	d.MinWidth = t.MinWidth
	if m.Kind != MediaBreakpoint {
		rank := m.rank
		if rank > maxRank {
			rank = maxRank
		}
		d.VariantRank |= 1 << rank
	}
	return d
}

// Resolver turns candidate tokens into definitions using a universe and
// a registry.
type Resolver struct {
	Universe *utility.Universe
	Registry *Registry
}

// Resolve returns the definition for token: an exact universe entry, or
// the expansion of its variant-stripped base. ok is false when the base is
// not a known utility. err is set for unknown variants on a known base;
// unknown prefixes on non-utilities (std::fmt, https://...) are ignored.
func (r Resolver) Resolve(token string) (d utility.Definition, ok bool, err error) {
	if d, ok := r.Universe.Lookup(token); ok {
		return d, true, nil
	}
	mods, base, err := r.Registry.Parse(token)
	if err != nil {
		if _, b := Split(token); b != "" {
			if _, known := r.Universe.Lookup(b); known {
				return utility.Definition{}, false, err
			}
		}
		return utility.Definition{}, false, nil
	}
	if len(mods) == 0 {
		return utility.Definition{}, false, nil
	}
	bd, ok := r.Universe.Lookup(base)
	if !ok {
		return utility.Definition{}, false, nil
	}
	return Expand(bd, token, mods), true, nil
}
