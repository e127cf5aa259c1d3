package emit

import (
	"sort"

	"github.com/gnana997/twgen/assets"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// Options control emission.
type Options struct {
	// Preflight emits the base reset at the top of the base layer.
	Preflight bool

	// PreflightCSS replaces the embedded reset when non-empty.
	PreflightCSS string

	// Pretty indents rules one declaration per line.
	Pretty bool

	// Banner is written as a leading /*! ... */ comment when set.
	Banner string
}

// Emit serializes retained definitions into a stylesheet. Layers are written
// base, components, utilities. Within each layer, unconditional rules come
// first, then one block per breakpoint in ascending min-width; generation
// order is preserved inside each group. The output depends only on the set
// of definitions and opts, not on slice order.
func Emit(retained []utility.Definition, opts Options) string {
	defs := append([]utility.Definition(nil), retained...)
	utility.Sort(defs)

	w := &writer{pretty: opts.Pretty}
	if opts.Banner != "" {
		w.raw("/*! " + opts.Banner + " */")
	}

	if opts.Preflight {
		css := opts.PreflightCSS
		if css == "" {
			css = assets.Preflight
		}
		w.raw(css)
	}

	var base, components, utilities []utility.Definition
	for _, d := range defs {
		switch d.Layer {
		case utility.LayerBase:
			base = append(base, d)
		case utility.LayerComponents:
			components = append(components, d)
		default:
			utilities = append(utilities, d)
		}
	}

	writeGrouped(w, base)
	writeGrouped(w, components)
	writeKeyframes(w, utilities)
	writeGrouped(w, utilities)

	return w.String()
}

// writeGrouped writes one layer's definitions, already sorted by min-width.
func writeGrouped(w *writer, defs []utility.Definition) {
	i := 0
	for i < len(defs) && defs[i].MinWidth == 0 {
		writeDefinition(w, defs[i])
		i++
	}
	for i < len(defs) {
		width := defs[i].MinWidth
		w.open(variant.MinWidthQuery(width))
		for i < len(defs) && defs[i].MinWidth == width {
			writeDefinition(w, defs[i])
			i++
		}
		w.close()
	}
}

func writeDefinition(w *writer, d utility.Definition) {
	sel := d.ClassSelector()
	for _, at := range d.AtRules {
		w.open(at)
	}
	if len(d.Properties) > 0 {
		w.rule(sel, d.Properties)
	}
	for _, blk := range d.Blocks {
		w.open(blk.AtRule)
		w.rule(sel, blk.Properties)
		w.close()
	}
	for range d.AtRules {
		w.close()
	}
}

// writeKeyframes emits each keyframes definition needed by defs once, by name.
func writeKeyframes(w *writer, defs []utility.Definition) {
	seen := make(map[string]string)
	for _, d := range defs {
		if d.Keyframes != nil {
			seen[d.Keyframes.Name] = d.Keyframes.Body
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w.open("@keyframes " + n)
		w.raw(seen[n])
		w.close()
	}
}
