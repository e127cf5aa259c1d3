package utility

import (
	"strings"

	"github.com/gnana997/twgen/pkg/theme"
)

// ValueKind is the shape an arbitrary bracket value must have for a rule.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindLength
	KindColor
	KindNumber
	KindAny
)

// Static is a fixed class with fixed declarations.
type Static struct {
	Name       string
	Properties []Property
}

// Rule produces utilities. Themed rules map every token of Category through
// Declare; static rules contribute a fixed table.
type Rule struct {
	// Name identifies the rule in conflicts and diagnostics.
	Name string

	// Prefix forms class names: <prefix>-<token>, or <prefix> for DEFAULT.
	Prefix   string
	Category theme.Category
	Declare  func(v theme.Value) []Property

	// Negative also emits -<prefix>-<token> with the value negated.
	Negative bool

	Suffix    string
	Arbitrary ValueKind
	Static    []Static

	// Animates attaches the theme keyframes named by the animation value.
	Animates bool
}

func props(names ...string) func(theme.Value) []Property {
	return func(v theme.Value) []Property {
		out := make([]Property, len(names))
		for i, n := range names {
			out[i] = Property{Name: n, Value: v.CSS()}
		}
		return out
	}
}

func themed(name, prefix string, cat theme.Category, kind ValueKind, properties ...string) Rule {
	return Rule{Name: name, Prefix: prefix, Category: cat, Declare: props(properties...), Arbitrary: kind}
}

func spacing(name, prefix string, properties ...string) Rule {
	return themed(name, prefix, theme.CategorySpacing, KindLength, properties...)
}

func negatable(r Rule) Rule {
	r.Negative = true
	return r
}

const spaceBetween = " > :not([hidden]) ~ :not([hidden])"

// CoreRules returns the built-in rules in registration order. Registration
// order is generation order, which is cascade order within a layer.
func CoreRules() []Rule {
	return []Rule{
		static("pointer-events", kw("pointer-events", "pointer-events-none", "none", "pointer-events-auto", "auto")),
		static("visibility", kw("visibility", "visible", "visible", "invisible", "hidden", "collapse", "collapse")),
		static("position", kw("position", "static", "static", "fixed", "fixed", "absolute", "absolute", "relative", "relative", "sticky", "sticky")),

		negatable(spacing("inset", "inset", "top", "right", "bottom", "left")),
		negatable(spacing("inset-x", "inset-x", "left", "right")),
		negatable(spacing("inset-y", "inset-y", "top", "bottom")),
		negatable(spacing("top", "top", "top")),
		negatable(spacing("right", "right", "right")),
		negatable(spacing("bottom", "bottom", "bottom")),
		negatable(spacing("left", "left", "left")),
		static("inset-keywords", insetKeywords()),

		themed("z-index", "z", theme.CategoryZIndex, KindNumber, "z-index"),

		negatable(spacing("margin", "m", "margin")),
		negatable(spacing("margin-x", "mx", "margin-left", "margin-right")),
		negatable(spacing("margin-y", "my", "margin-top", "margin-bottom")),
		negatable(spacing("margin-top", "mt", "margin-top")),
		negatable(spacing("margin-right", "mr", "margin-right")),
		negatable(spacing("margin-bottom", "mb", "margin-bottom")),
		negatable(spacing("margin-left", "ml", "margin-left")),
		static("margin-auto", marginAuto()),

		static("display", displays()),

		spacing("height", "h", "height"),
		static("height-keywords", sizeKeywords("h", "height", "100vh")),
		spacing("max-height", "max-h", "max-height"),
		static("max-height-keywords", sizeKeywords("max-h", "max-height", "100vh")),
		spacing("min-height", "min-h", "min-height"),
		static("min-height-keywords", sizeKeywords("min-h", "min-height", "100vh")),

		spacing("width", "w", "width"),
		static("width-keywords", sizeKeywords("w", "width", "100vw"), fractions("w", "width")),
		static("min-width", kw("min-width", "min-w-0", "0px"), sizeKeywords("min-w", "min-width", "100vw")),
		static("max-width", maxWidths()),

		static("flex", flexShorthands()),
		static("cursor", cursors()),
		static("user-select", kw("user-select", "select-none", "none", "select-text", "text", "select-all", "all", "select-auto", "auto")),
		static("grid-template-columns", gridColumns()),
		{Name: "grid-template-columns-arbitrary", Prefix: "grid-cols", Declare: props("grid-template-columns"), Arbitrary: KindAny},
		static("grid-column", colSpans()),
		static("flex-direction", kw("flex-direction", "flex-row", "row", "flex-row-reverse", "row-reverse", "flex-col", "column", "flex-col-reverse", "column-reverse")),
		static("flex-wrap", kw("flex-wrap", "flex-wrap", "wrap", "flex-wrap-reverse", "wrap-reverse", "flex-nowrap", "nowrap")),
		static("align-items", kw("align-items", "items-start", "flex-start", "items-end", "flex-end", "items-center", "center", "items-baseline", "baseline", "items-stretch", "stretch")),
		static("justify-content", kw("justify-content", "justify-normal", "normal", "justify-start", "flex-start", "justify-end", "flex-end", "justify-center", "center", "justify-between", "space-between", "justify-around", "space-around", "justify-evenly", "space-evenly", "justify-stretch", "stretch")),

		spacing("gap", "gap", "gap"),
		spacing("gap-x", "gap-x", "column-gap"),
		spacing("gap-y", "gap-y", "row-gap"),
		withSuffix(spacing("space-x", "space-x", "margin-left"), spaceBetween),
		withSuffix(spacing("space-y", "space-y", "margin-top"), spaceBetween),

		static("align-self", kw("align-self", "self-auto", "auto", "self-start", "flex-start", "self-end", "flex-end", "self-center", "center", "self-stretch", "stretch", "self-baseline", "baseline")),
		static("overflow", overflows()),
		static("text-overflow", textOverflow()),
		static("whitespace", kw("white-space", "whitespace-normal", "normal", "whitespace-nowrap", "nowrap", "whitespace-pre", "pre", "whitespace-pre-line", "pre-line", "whitespace-pre-wrap", "pre-wrap", "whitespace-break-spaces", "break-spaces")),
		static("word-break", breaks()),

		themed("border-radius", "rounded", theme.CategoryBorderRadius, KindLength, "border-radius"),
		themed("border-radius-top", "rounded-t", theme.CategoryBorderRadius, KindLength, "border-top-left-radius", "border-top-right-radius"),
		themed("border-radius-right", "rounded-r", theme.CategoryBorderRadius, KindLength, "border-top-right-radius", "border-bottom-right-radius"),
		themed("border-radius-bottom", "rounded-b", theme.CategoryBorderRadius, KindLength, "border-bottom-right-radius", "border-bottom-left-radius"),
		themed("border-radius-left", "rounded-l", theme.CategoryBorderRadius, KindLength, "border-top-left-radius", "border-bottom-left-radius"),

		themed("border-width", "border", theme.CategoryBorderWidth, KindLength, "border-width"),
		themed("border-width-x", "border-x", theme.CategoryBorderWidth, KindLength, "border-left-width", "border-right-width"),
		themed("border-width-y", "border-y", theme.CategoryBorderWidth, KindLength, "border-top-width", "border-bottom-width"),
		themed("border-width-top", "border-t", theme.CategoryBorderWidth, KindLength, "border-top-width"),
		themed("border-width-right", "border-r", theme.CategoryBorderWidth, KindLength, "border-right-width"),
		themed("border-width-bottom", "border-b", theme.CategoryBorderWidth, KindLength, "border-bottom-width"),
		themed("border-width-left", "border-l", theme.CategoryBorderWidth, KindLength, "border-left-width"),
		static("border-style", kw("border-style", "border-solid", "solid", "border-dashed", "dashed", "border-dotted", "dotted", "border-double", "double", "border-hidden", "hidden", "border-none", "none")),
		themed("border-color", "border", theme.CategoryColors, KindColor, "border-color"),

		themed("background-color", "bg", theme.CategoryColors, KindColor, "background-color"),
		themed("fill", "fill", theme.CategoryColors, KindColor, "fill"),
		themed("stroke", "stroke", theme.CategoryColors, KindColor, "stroke"),
		static("object-fit", kw("object-fit", "object-contain", "contain", "object-cover", "cover", "object-fill", "fill", "object-none", "none", "object-scale-down", "scale-down")),

		spacing("padding", "p", "padding"),
		spacing("padding-x", "px", "padding-left", "padding-right"),
		spacing("padding-y", "py", "padding-top", "padding-bottom"),
		spacing("padding-top", "pt", "padding-top"),
		spacing("padding-right", "pr", "padding-right"),
		spacing("padding-bottom", "pb", "padding-bottom"),
		spacing("padding-left", "pl", "padding-left"),

		static("text-align", kw("text-align", "text-left", "left", "text-center", "center", "text-right", "right", "text-justify", "justify", "text-start", "start", "text-end", "end")),
		static("vertical-align", kw("vertical-align", "align-baseline", "baseline", "align-top", "top", "align-middle", "middle", "align-bottom", "bottom")),

		{Name: "font-family", Prefix: "font", Category: theme.CategoryFontFamily, Declare: props("font-family")},
		{Name: "font-size", Prefix: "text", Category: theme.CategoryFontSize, Declare: fontSize, Arbitrary: KindLength},
		themed("font-weight", "font", theme.CategoryFontWeight, KindNumber, "font-weight"),
		static("text-transform", kw("text-transform", "uppercase", "uppercase", "lowercase", "lowercase", "capitalize", "capitalize", "normal-case", "none")),
		static("font-style", kw("font-style", "italic", "italic", "not-italic", "normal")),
		static("line-height", kw("line-height", "leading-none", "1", "leading-tight", "1.25", "leading-snug", "1.375", "leading-normal", "1.5", "leading-relaxed", "1.625", "leading-loose", "2")),
		static("letter-spacing", kw("letter-spacing", "tracking-tighter", "-0.05em", "tracking-tight", "-0.025em", "tracking-normal", "0em", "tracking-wide", "0.025em", "tracking-wider", "0.05em", "tracking-widest", "0.1em")),

		themed("text-color", "text", theme.CategoryColors, KindColor, "color"),
		static("text-decoration", kw("text-decoration-line", "underline", "underline", "overline", "overline", "line-through", "line-through", "no-underline", "none")),
		themed("text-decoration-color", "decoration", theme.CategoryColors, KindColor, "text-decoration-color"),
		withSuffix(themed("placeholder-color", "placeholder", theme.CategoryColors, KindColor, "color"), "::placeholder"),
		themed("caret-color", "caret", theme.CategoryColors, KindColor, "caret-color"),
		themed("accent-color", "accent", theme.CategoryColors, KindColor, "accent-color"),

		themed("opacity", "opacity", theme.CategoryOpacity, KindNumber, "opacity"),
		themed("box-shadow", "shadow", theme.CategoryBoxShadow, KindAny, "box-shadow"),

		static("outline-style", outlines()),
		themed("outline-color", "outline", theme.CategoryColors, KindColor, "outline-color"),

		static("transition-property", transitions()),
		static("transition-duration", durations()),
		static("transition-timing-function", kw("transition-timing-function", "ease-linear", "linear", "ease-in", "cubic-bezier(0.4, 0, 1, 1)", "ease-out", "cubic-bezier(0, 0, 0.2, 1)", "ease-in-out", "cubic-bezier(0.4, 0, 0.2, 1)")),

		{Name: "animation", Prefix: "animate", Category: theme.CategoryAnimation, Declare: props("animation"), Animates: true},
	}
}

func static(name string, groups ...[]Static) Rule {
	var classes []Static
	for _, g := range groups {
		classes = append(classes, g...)
	}
	return Rule{Name: name, Static: classes}
}

func withSuffix(r Rule, suffix string) Rule {
	r.Suffix = suffix
	return r
}

func fontSize(v theme.Value) []Property {
	out := []Property{{Name: "font-size", Value: v.CSS()}}
	if lh, ok := v.LineHeight(); ok {
		out = append(out, Property{Name: "line-height", Value: lh})
	}
	return out
}

// negate flips the sign of a length value.
func negate(v string) string {
	switch {
	case v == "0" || v == "0px":
		return v
	case strings.HasPrefix(v, "-"):
		return v[1:]
	case v != "" && (v[0] >= '0' && v[0] <= '9' || v[0] == '.'):
		return "-" + v
	default:
		return "calc(" + v + " * -1)"
	}
}
