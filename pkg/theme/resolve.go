package theme

import (
	"fmt"
	"sort"
)

// PartialTheme is a user-supplied set of token overrides keyed by category
// name, as decoded from configuration.
type PartialTheme struct {
	Categories map[string]any

	// DarkMode, when set, replaces the base strategy.
	DarkMode DarkMode
}

// Resolve merges ext into base. For every category present in ext, tokens
// merge by name and extension values win on collision; categories absent from
// ext pass through unchanged. Resolve never mutates base.
//
// Returns *InvalidTokenError when ext names an unknown category or a value
// does not fit its category.
func Resolve(base *Theme, ext PartialTheme) (*Theme, error) {
	return merge(base, ext, false)
}

// Replace substitutes whole categories of base with those in p.
func Replace(base *Theme, p PartialTheme) (*Theme, error) {
	return merge(base, p, true)
}

func merge(base *Theme, ext PartialTheme, replace bool) (*Theme, error) {
	if base == nil {
		base = Default()
	}
	out := base.clone()

	keys := make([]string, 0, len(ext.Categories))
	for k := range ext.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		cat, ok := ParseCategory(key)
		if !ok {
			return nil, &InvalidTokenError{Category: key, Reason: "unknown category"}
		}
		entries, err := flatten(cat, ext.Categories[key])
		if err != nil {
			return nil, err
		}

		var scale *Scale
		if existing, ok := out.scales[cat]; ok && !replace {
			scale = existing.clone()
		} else {
			scale = newScale()
		}
		for _, e := range entries {
			v, err := normalize(cat, e.name, e.raw)
			if err != nil {
				return nil, err
			}
			scale.set(e.name, v)
		}
		out.scales[cat] = scale
	}

	if ext.DarkMode != "" {
		dm, err := ParseDarkMode(string(ext.DarkMode))
		if err != nil {
			return nil, fmt.Errorf("resolve theme: %w", err)
		}
		out.darkMode = dm
	}
	return out, nil
}
