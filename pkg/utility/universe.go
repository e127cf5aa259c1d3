package utility

import (
	"iter"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/twgen/pkg/theme"
)

// Conflict records two rules producing the same class name.
type Conflict struct {
	ClassName string
	Loser     string
	Winner    string
}

// Universe is the ordered set of utility definitions, indexed by class name.
//
// **Thread Safety:** a Universe is read-only once returned from Generate or
// NewUniverse. Lookup is safe for concurrent use; arbitrary values are
// memoized in a thread-safe LRU cache.
type Universe struct {
	defs      []Definition
	dead      []bool
	index     map[string]int
	conflicts []Conflict

	rules     []indexedRule
	arbitrary *lru.Cache[string, arbitraryResult]
}

type indexedRule struct {
	Rule
	index int
}

type arbitraryResult struct {
	def Definition
	ok  bool
}

const arbitraryCacheSize = 4096

func newUniverse() *Universe {
	cache, _ := lru.New[string, arbitraryResult](arbitraryCacheSize)
	return &Universe{
		index:     make(map[string]int),
		arbitrary: cache,
	}
}

// NewUniverse builds a universe from existing definitions, keeping their
// orders. Later definitions with a duplicate class name win.
func NewUniverse(defs ...Definition) *Universe {
	u := newUniverse()
	sorted := append([]Definition(nil), defs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	for _, d := range sorted {
		u.add(d)
	}
	return u
}

// add registers d. On a class-name collision the earlier definition is
// retired and d takes the later position.
func (u *Universe) add(d Definition) (replaced *Definition) {
	if i, ok := u.index[d.ClassName]; ok {
		prev := u.defs[i]
		u.dead[i] = true
		u.conflicts = append(u.conflicts, Conflict{ClassName: d.ClassName, Loser: prev.Rule, Winner: d.Rule})
		replaced = &prev
	}
	u.index[d.ClassName] = len(u.defs)
	u.defs = append(u.defs, d)
	u.dead = append(u.dead, false)
	return replaced
}

// Len returns the number of live definitions.
func (u *Universe) Len() int {
	return len(u.index)
}

// Get returns the generated definition for className, without arbitrary values.
func (u *Universe) Get(className string) (Definition, bool) {
	i, ok := u.index[className]
	if !ok {
		return Definition{}, false
	}
	return u.defs[i], true
}

// Lookup resolves className to a definition, including bracketed
// arbitrary values such as w-[33%].
func (u *Universe) Lookup(className string) (Definition, bool) {
	if d, ok := u.Get(className); ok {
		return d, true
	}
	if len(u.rules) == 0 || !isArbitrary(className) {
		return Definition{}, false
	}
	if res, ok := u.arbitrary.Get(className); ok {
		return res.def, res.ok
	}
	d, ok := u.resolveArbitrary(className)
	u.arbitrary.Add(className, arbitraryResult{def: d, ok: ok})
	return d, ok
}

// All iterates live definitions in generation order.
func (u *Universe) All() iter.Seq[Definition] {
	return func(yield func(Definition) bool) {
		for i, d := range u.defs {
			if u.dead[i] {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Definitions returns live definitions in generation order.
func (u *Universe) Definitions() []Definition {
	out := make([]Definition, 0, u.Len())
	for d := range u.All() {
		out = append(out, d)
	}
	return out
}

// Conflicts returns the class-name collisions seen during generation.
func (u *Universe) Conflicts() []Conflict {
	return u.conflicts
}

// ByCategory returns live definitions generated from category c.
func (u *Universe) ByCategory(c theme.Category) []Definition {
	var out []Definition
	for d := range u.All() {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
