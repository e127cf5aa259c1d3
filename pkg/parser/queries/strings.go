package queries

// StringQuery captures every string-like literal whose contents may hold
// class names. Comments and identifiers are deliberately not captured.
//
// Capture names:
//   - @string.literal: '...' and "..." literals, including JSX attribute values
//   - @template.literal: `...` template strings, substitutions included
const StringQuery = `
(string) @string.literal
(template_string) @template.literal
`

// JSXQuery adds bare JSX text children. Only grammars with JSX support
// know the jsx_text node.
const JSXQuery = `
(jsx_text) @jsx.text
`
