package utility

import (
	"math"
	"strings"

	"github.com/gnana997/twgen/pkg/theme"
)

func isArbitrary(className string) bool {
	return strings.HasSuffix(className, "]") && strings.Contains(className, "-[")
}

// splitArbitrary splits "w-[33%]" into "w" and "33%".
func splitArbitrary(className string) (prefix, value string, ok bool) {
	i := strings.Index(className, "-[")
	if i <= 0 || !strings.HasSuffix(className, "]") {
		return "", "", false
	}
	prefix, value = className[:i], className[i+2:len(className)-1]
	if value == "" || strings.ContainsAny(value, "[]{};") {
		return "", "", false
	}
	return prefix, decodeArbitrary(value), true
}

// decodeArbitrary turns underscores into spaces; "\_" keeps a literal underscore.
func decodeArbitrary(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		switch {
		case v[i] == '\\' && i+1 < len(v) && v[i+1] == '_':
			b.WriteByte('_')
			i++
		case v[i] == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

func accepts(kind ValueKind, value string) bool {
	switch kind {
	case KindLength:
		return theme.ValidateLength(value) == nil
	case KindColor:
		_, err := theme.ValidateColor(value)
		return err == nil
	case KindNumber:
		_, err := theme.ValidateNumber(value, math.Inf(-1), math.Inf(1))
		return err == nil
	case KindAny:
		return strings.TrimSpace(value) != ""
	}
	return false
}

// resolveArbitrary tries every rule with the candidate's prefix, in
// registration order, and uses the first whose value kind fits.
func (u *Universe) resolveArbitrary(className string) (Definition, bool) {
	prefix, value, ok := splitArbitrary(className)
	if !ok {
		return Definition{}, false
	}
	for _, r := range u.rules {
		if r.Prefix != prefix || r.Arbitrary == KindNone || r.Declare == nil {
			continue
		}
		if !accepts(r.Arbitrary, value) {
			continue
		}
		return Definition{
			ClassName:      className,
			Category:       r.Category,
			Rule:           r.Name,
			Properties:     r.Declare(theme.Value{Raw: value}),
			Layer:          LayerUtilities,
			Order:          r.index*ruleStride + ruleStride - 1,
			SelectorSuffix: r.Suffix,
		}, true
	}
	return Definition{}, false
}
