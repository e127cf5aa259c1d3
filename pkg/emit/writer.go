package emit

import (
	"strings"

	"github.com/gnana997/twgen/pkg/utility"
)

// writer renders nested CSS blocks either compact or indented.
type writer struct {
	b      strings.Builder
	pretty bool
	depth  int
}

func (w *writer) indent() {
	if w.pretty {
		w.b.WriteString(strings.Repeat("  ", w.depth))
	}
}

func (w *writer) open(prelude string) {
	w.indent()
	w.b.WriteString(prelude)
	if w.pretty {
		w.b.WriteString(" {\n")
	} else {
		w.b.WriteByte('{')
	}
	w.depth++
}

func (w *writer) close() {
	w.depth--
	w.indent()
	w.b.WriteByte('}')
	if w.pretty {
		w.b.WriteByte('\n')
	}
}

func (w *writer) decls(props []utility.Property) {
	if !w.pretty {
		w.b.WriteString(utility.JoinProperties(props))
		return
	}
	for _, p := range props {
		w.indent()
		w.b.WriteString(p.Name)
		w.b.WriteString(": ")
		w.b.WriteString(p.Value)
		w.b.WriteString(";\n")
	}
}

func (w *writer) rule(selector string, props []utility.Property) {
	w.open(selector)
	w.decls(props)
	w.close()
}

// raw writes pre-rendered CSS, one line per block in pretty mode.
func (w *writer) raw(css string) {
	for _, line := range strings.Split(strings.TrimSpace(css), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w.indent()
		w.b.WriteString(line)
		if w.pretty {
			w.b.WriteByte('\n')
		}
	}
}

func (w *writer) String() string {
	return w.b.String()
}
