package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies a grammar the precise scanner can parse.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts, .cts and .tsx sources.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js, .jsx, .mjs and .cjs sources.
	LanguageJavaScript
	// LanguageUnknown means the file is scanned lexically.
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Grammar is a language plus its JSX flavour. Only TypeScript has a
// distinct JSX grammar; JavaScript parses JSX natively.
type Grammar struct {
	Lang  Language
	IsTSX bool
}

func (g Grammar) String() string {
	if g.IsTSX {
		return "tsx"
	}
	return g.Lang.String()
}

// DetectGrammar maps a file path onto a grammar by extension. The second
// result is false for files that have no grammar.
func DetectGrammar(path string) (Grammar, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return Grammar{Lang: LanguageTypeScript}, true
	case ".tsx":
		return Grammar{Lang: LanguageTypeScript, IsTSX: true}, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return Grammar{Lang: LanguageJavaScript}, true
	default:
		return Grammar{Lang: LanguageUnknown}, false
	}
}

// ParseLanguageString converts "typescript"/"ts"/"javascript"/"js".
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "typescript", "ts":
		return LanguageTypeScript
	case "javascript", "js":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}
