package purge

import (
	"errors"
	"sort"

	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

// Result is the outcome of one purge pass.
type Result struct {
	// Retained are the surviving definitions in emission order.
	Retained []utility.Definition

	// Dropped holds candidates rejected for an unknown variant.
	Dropped []*variant.UnknownVariantError
}

// ClassNames returns the retained class names in emission order.
func (r *Result) ClassNames() []string {
	out := make([]string, len(r.Retained))
	for i, d := range r.Retained {
		out[i] = d.ClassName
	}
	return out
}

// Purge keeps exactly the definitions whose class name is a candidate or is
// safelisted. Variant-prefixed candidates are expanded from their base
// utility. The result does not depend on candidate order, and purging the
// retained set again with the same inputs returns the same set.
func Purge(u *utility.Universe, candidates []string, sl Safelist, reg *variant.Registry) *Result {
	retained := make(map[string]utility.Definition)
	res := &Result{}
	resolver := variant.Resolver{Universe: u, Registry: reg}

	for _, c := range candidates {
		if _, ok := retained[c]; ok {
			continue
		}
		d, ok, err := resolver.Resolve(c)
		if err != nil {
			var uv *variant.UnknownVariantError
			if errors.As(err, &uv) {
				res.Dropped = append(res.Dropped, uv)
			}
			continue
		}
		if ok {
			retained[c] = d
		}
	}

	// Safelisted names that the universe or the registry can produce.
	for _, e := range sl.Exact() {
		if _, ok := retained[e]; ok {
			continue
		}
		if d, ok, _ := resolver.Resolve(e); ok {
			retained[e] = d
		}
	}
	if len(sl.patterns) > 0 {
		for d := range u.All() {
			if _, ok := retained[d.ClassName]; ok {
				continue
			}
			if sl.Matches(d.ClassName) {
				retained[d.ClassName] = d
			}
		}
	}

	res.Retained = make([]utility.Definition, 0, len(retained))
	for _, d := range retained {
		res.Retained = append(res.Retained, d)
	}
	utility.Sort(res.Retained)

	sort.Slice(res.Dropped, func(i, j int) bool { return res.Dropped[i].Token < res.Dropped[j].Token })
	res.Dropped = dedupe(res.Dropped)
	return res
}

func dedupe(errs []*variant.UnknownVariantError) []*variant.UnknownVariantError {
	out := errs[:0]
	for i, e := range errs {
		if i > 0 && errs[i-1].Token == e.Token {
			continue
		}
		out = append(out, e)
	}
	return out
}
