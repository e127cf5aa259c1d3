package utility

import (
	"fmt"
	"strings"
)

// EscapeClass escapes a class name for use in a CSS selector, following the
// CSSOM serialize-an-identifier rules.
func EscapeClass(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i, r := range s {
		switch {
		case r == 0:
			b.WriteRune('�')
		case r >= 0x1 && r <= 0x1f || r == 0x7f:
			fmt.Fprintf(&b, "\\%x ", r)
		case r >= '0' && r <= '9':
			if i == 0 || (i == 1 && s[0] == '-') {
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		case r == '-' && i == 0 && len(s) == 1:
			b.WriteString(`\-`)
		case r >= 0x80, r == '-', r == '_',
			r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
