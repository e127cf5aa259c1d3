package theme

import (
	"iter"
	"sort"
)

// Scale is an ordered set of named token values within one category.
type Scale struct {
	names  []string
	values map[string]Value
}

func newScale() *Scale {
	return &Scale{values: make(map[string]Value)}
}

// Len returns the number of tokens.
func (s *Scale) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Get returns the value of name.
func (s *Scale) Get(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Names returns token names in scale order. The slice must not be modified.
func (s *Scale) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}

// All iterates tokens in scale order.
func (s *Scale) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if s == nil {
			return
		}
		for _, n := range s.names {
			if !yield(n, s.values[n]) {
				return
			}
		}
	}
}

// set adds or overrides name. An override keeps the existing position.
func (s *Scale) set(name string, v Value) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = v
}

func (s *Scale) clone() *Scale {
	out := &Scale{
		names:  append([]string(nil), s.names...),
		values: make(map[string]Value, len(s.values)),
	}
	for k, v := range s.values {
		out.values[k] = v
	}
	return out
}

// Theme is an immutable set of design tokens grouped by category.
//
// **Thread Safety:** a Theme is never mutated after construction and can be
// shared freely across goroutines.
type Theme struct {
	scales   map[Category]*Scale
	darkMode DarkMode
}

// Scale returns the tokens of c. Absent categories yield an empty scale.
func (t *Theme) Scale(c Category) *Scale {
	if s, ok := t.scales[c]; ok {
		return s
	}
	return newScale()
}

// Value looks up one token.
func (t *Theme) Value(c Category, name string) (Value, bool) {
	return t.Scale(c).Get(name)
}

// DarkMode returns the strategy for the dark variant.
func (t *Theme) DarkMode() DarkMode {
	return t.darkMode
}

// Screen is a named responsive breakpoint.
type Screen struct {
	Name     string
	Raw      string
	MinWidth float64
}

// Screens returns the breakpoints by ascending min-width.
func (t *Theme) Screens() []Screen {
	var out []Screen
	for name, v := range t.Scale(CategoryScreens).All() {
		out = append(out, Screen{Name: name, Raw: v.Raw, MinWidth: v.Pixels})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinWidth < out[j].MinWidth
	})
	return out
}

// TokenCount returns the total number of tokens across categories.
func (t *Theme) TokenCount() int {
	n := 0
	for _, s := range t.scales {
		n += s.Len()
	}
	return n
}

func (t *Theme) clone() *Theme {
	out := &Theme{scales: make(map[Category]*Scale, len(t.scales)), darkMode: t.darkMode}
	for c, s := range t.scales {
		out.scales[c] = s
	}
	return out
}
