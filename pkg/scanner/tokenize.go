package scanner

import (
	"regexp"
	"sort"
	"strings"
)

// maxTokenLen drops minified blobs and data URIs early.
const maxTokenLen = 256

// tokenGrammar is deliberately permissive: an optional important or negative
// prefix, then word characters, colons, dots, slashes, percent signs and
// hyphens, with bracketed arbitrary segments allowed anywhere after the
// first character.
var tokenGrammar = regexp.MustCompile(`^!?-?[A-Za-z0-9@](?:[A-Za-z0-9_.:/%@#-]|\[[^\s\[\]]+\])*$`)

// trailingPunct is trimmed from the end of a token to form a second
// candidate, so prose like "use p-4." still yields p-4.
const trailingPunct = ".:!?"

// isBoundary reports separator bytes outside brackets.
func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v',
		'"', '\'', '`',
		'<', '>', '{', '}', '(', ')', '=', ',', ';':
		return true
	}
	return false
}

// isHardBoundary reports separators that end a token even inside brackets.
func isHardBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v', '"', '`', '<', '>':
		return true
	}
	return false
}

// splitRaw splits data into raw words. Brackets suspend the soft boundaries
// so arbitrary values like bg-[rgb(1,2,3)] stay whole.
func splitRaw(data []byte, emit func(string)) {
	start := -1
	depth := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if start < 0 {
			if !isBoundary(c) {
				start = i
				depth = 0
				if c == '[' {
					depth = 1
				}
			}
			continue
		}
		switch {
		case c == '[':
			depth++
		case c == ']' && depth > 0:
			depth--
		case isHardBoundary(c) || (depth == 0 && isBoundary(c)):
			emit(string(data[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		emit(string(data[start:]))
	}
}

// Tokenize returns the sorted, de-duplicated candidate tokens in data.
func Tokenize(data []byte) []string {
	set := make(map[string]struct{})
	collect(data, set)
	return sortedSet(set)
}

func collect(data []byte, set map[string]struct{}) {
	splitRaw(data, func(word string) {
		if len(word) > maxTokenLen {
			return
		}
		if validToken(word) {
			set[word] = struct{}{}
		}
		if trimmed := strings.TrimRight(word, trailingPunct); trimmed != word && validToken(trimmed) {
			set[trimmed] = struct{}{}
		}
	})
}

func validToken(s string) bool {
	if !tokenGrammar.MatchString(s) {
		return false
	}
	// Pure numbers and versions are never class names.
	return strings.IndexFunc(s, func(r rune) bool {
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
	}) >= 0
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
