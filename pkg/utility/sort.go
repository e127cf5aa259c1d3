package utility

import "sort"

// Sort orders definitions for emission: layer, breakpoint width, variant
// rank, generation order, then class name.
func Sort(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool {
		a, b := defs[i], defs[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.MinWidth != b.MinWidth {
			return a.MinWidth < b.MinWidth
		}
		if a.VariantRank != b.VariantRank {
			return a.VariantRank < b.VariantRank
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ClassName < b.ClassName
	})
}
