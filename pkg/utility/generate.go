package utility

import (
	"fmt"
	"log/slog"

	"github.com/gnana997/twgen/pkg/theme"
	"github.com/gnana997/twgen/pkg/util"
)

// ruleStride separates the order ranges of consecutive rules. Token i of
// rule r gets order r*ruleStride + i.
const ruleStride = 1 << 16

// Contributor is a plugin capability that adds utilities after the core rules.
type Contributor interface {
	Name() string
	ContributeUtilities(t *theme.Theme) ([]Definition, error)
}

// Generator expands rules over a theme.
type Generator struct {
	rules  []Rule
	logger *slog.Logger
}

// NewGenerator creates a generator over the core rules.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{rules: CoreRules(), logger: util.OrDefault(logger)}
}

// Generate produces the utility universe of t with the default generator.
func Generate(t *theme.Theme, contributors ...Contributor) (*Universe, error) {
	return NewGenerator(nil).Generate(t, contributors...)
}

// Generate produces the full set of utilities t supports. Output order is
// deterministic: rules in registration order, then tokens in scale order,
// then contributors in the order given.
func (g *Generator) Generate(t *theme.Theme, contributors ...Contributor) (*Universe, error) {
	u := newUniverse()

	for ri, r := range g.rules {
		u.rules = append(u.rules, indexedRule{Rule: r, index: ri})
		base := ri * ruleStride

		if len(r.Static) > 0 {
			for i, s := range r.Static {
				g.add(u, Definition{
					ClassName:  s.Name,
					Rule:       r.Name,
					Properties: s.Properties,
					Layer:      LayerUtilities,
					Order:      base + i,
				})
			}
			continue
		}

		i := 0
		for name, v := range t.Scale(r.Category).All() {
			d := r.definition(t, name, v)
			d.Order = base + i
			g.add(u, d)
			i++

			if r.Negative {
				neg := d
				neg.ClassName = "-" + d.ClassName
				neg.Properties = negateAll(d.Properties)
				if neg.Properties != nil {
					neg.Order = base + i
					g.add(u, neg)
					i++
				}
			}
		}
	}

	for ci, c := range contributors {
		defs, err := c.ContributeUtilities(t)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", c.Name(), err)
		}
		base := (len(g.rules) + ci) * ruleStride
		for i, d := range defs {
			if d.ClassName == "" {
				return nil, fmt.Errorf("plugin %s: definition %d has no class name", c.Name(), i)
			}
			if d.Rule == "" {
				d.Rule = c.Name()
			}
			d.Order = base + i
			g.add(u, d)
		}
	}

	g.logger.Debug("utilities generated", "count", u.Len(), "conflicts", len(u.conflicts))
	return u, nil
}

func (g *Generator) add(u *Universe, d Definition) {
	if prev := u.add(d); prev != nil {
		g.logger.Warn("utility class conflict, last registered wins",
			"class", d.ClassName, "replaced", prev.Rule, "by", d.Rule)
	}
}

// className joins prefix and token; DEFAULT yields the bare prefix.
func className(prefix, token string) string {
	if token == theme.DefaultName {
		return prefix
	}
	return prefix + "-" + token
}

func (r Rule) definition(t *theme.Theme, token string, v theme.Value) Definition {
	d := Definition{
		ClassName:      className(r.Prefix, token),
		Category:       r.Category,
		Rule:           r.Name,
		Properties:     r.Declare(v),
		Layer:          LayerUtilities,
		SelectorSuffix: r.Suffix,
	}
	if r.Animates && v.Animation != nil {
		if kf, ok := t.Value(theme.CategoryKeyframes, v.Animation.Name); ok {
			d.Keyframes = &Keyframes{Name: v.Animation.Name, Body: kf.CSS()}
		}
	}
	return d
}

// negateAll negates every value, or returns nil when negation is a no-op.
func negateAll(in []Property) []Property {
	out := make([]Property, len(in))
	changed := false
	for i, p := range in {
		out[i] = Property{Name: p.Name, Value: negate(p.Value)}
		if out[i].Value != p.Value {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return out
}
