package purge

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Safelist forces retention of class names that static scanning cannot see.
// Entries containing glob metacharacters are patterns ("bg-dynamic-*");
// everything else matches exactly.
type Safelist struct {
	exact    map[string]struct{}
	patterns []string
}

// NewSafelist validates and compiles entries.
func NewSafelist(entries ...string) (Safelist, error) {
	s := Safelist{exact: make(map[string]struct{})}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !isPattern(e) {
			s.exact[e] = struct{}{}
			continue
		}
		if !doublestar.ValidatePattern(e) {
			return Safelist{}, fmt.Errorf("invalid safelist pattern: %s", e)
		}
		s.patterns = append(s.patterns, e)
	}
	return s, nil
}

func isPattern(e string) bool {
	return strings.ContainsAny(e, "*?{")
}

// Empty reports whether no entries were given.
func (s Safelist) Empty() bool {
	return len(s.exact) == 0 && len(s.patterns) == 0
}

// Exact returns the literal entries.
func (s Safelist) Exact() []string {
	out := make([]string, 0, len(s.exact))
	for e := range s.exact {
		out = append(out, e)
	}
	return out
}

// Matches reports whether className is safelisted.
func (s Safelist) Matches(className string) bool {
	if _, ok := s.exact[className]; ok {
		return true
	}
	for _, p := range s.patterns {
		// '*' stops at '/': fractions need "w-*/*".
		if ok, _ := doublestar.Match(p, className); ok {
			return true
		}
	}
	return false
}
