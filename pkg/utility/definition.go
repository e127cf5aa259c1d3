package utility

import (
	"fmt"
	"strings"

	"github.com/gnana997/twgen/pkg/theme"
)

// Layer is a cascade ordering bucket. Emission order follows the constant order.
type Layer int

const (
	LayerBase Layer = iota
	LayerComponents
	LayerUtilities
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerComponents:
		return "components"
	case LayerUtilities:
		return "utilities"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Property is one CSS declaration.
type Property struct {
	Name  string
	Value string
}

// Block is an extra rule body for the same selector under an at-rule.
type Block struct {
	AtRule     string
	Properties []Property
}

// Keyframes is an @keyframes definition an animation utility depends on.
type Keyframes struct {
	Name string
	Body string
}

// Definition is one generated utility: a class name and the declarations it
// produces. ClassName is the identity; two definitions with the same class
// name are the same utility.
type Definition struct {
	ClassName string
	Category  theme.Category
	Rule      string

	Properties []Property
	Layer      Layer

	// Order is the generation position. Lower orders are emitted first
	// within a breakpoint group.
	Order int

	// SelectorSuffix is appended to the class selector (" > :not([hidden]) ~ :not([hidden])").
	SelectorSuffix string

	// Selector is the qualified selector once variants have been applied,
	// without SelectorSuffix. Empty means the plain class selector.
	Selector string

	// AtRules wrap the rule, outermost first. Breakpoints are kept apart in
	// Breakpoint/MinWidth so the emitter can group them.
	AtRules []string

	Breakpoint string
	MinWidth   float64

	// VariantRank orders variant-qualified rules after plain ones.
	VariantRank int

	Keyframes *Keyframes
	Blocks    []Block
}

// ClassSelector returns the selector the rule is emitted under.
func (d Definition) ClassSelector() string {
	sel := d.Selector
	if sel == "" {
		sel = "." + EscapeClass(d.ClassName)
	}
	return sel + d.SelectorSuffix
}

// Declarations renders the properties as "a:b;c:d".
func (d Definition) Declarations() string {
	return JoinProperties(d.Properties)
}

// JoinProperties renders declarations without a trailing semicolon.
func JoinProperties(props []Property) string {
	var b strings.Builder
	for i, p := range props {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Name)
		b.WriteByte(':')
		b.WriteString(p.Value)
	}
	return b.String()
}

// IsConditional reports whether the rule is wrapped by a breakpoint.
func (d Definition) IsConditional() bool {
	return d.Breakpoint != ""
}
