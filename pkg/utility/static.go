package utility

import "strconv"

// kw builds single-declaration statics from class/value pairs.
func kw(property string, pairs ...string) []Static {
	out := make([]Static, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Static{Name: pairs[i], Properties: []Property{{Name: property, Value: pairs[i+1]}}})
	}
	return out
}

func decl(name string, kv ...string) Static {
	s := Static{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Properties = append(s.Properties, Property{Name: kv[i], Value: kv[i+1]})
	}
	return s
}

func insetKeywords() []Static {
	return []Static{
		decl("inset-auto", "top", "auto", "right", "auto", "bottom", "auto", "left", "auto"),
		decl("inset-full", "top", "100%", "right", "100%", "bottom", "100%", "left", "100%"),
		decl("top-auto", "top", "auto"),
		decl("top-full", "top", "100%"),
		decl("right-auto", "right", "auto"),
		decl("right-full", "right", "100%"),
		decl("bottom-auto", "bottom", "auto"),
		decl("bottom-full", "bottom", "100%"),
		decl("left-auto", "left", "auto"),
		decl("left-full", "left", "100%"),
	}
}

func marginAuto() []Static {
	return []Static{
		decl("m-auto", "margin", "auto"),
		decl("mx-auto", "margin-left", "auto", "margin-right", "auto"),
		decl("my-auto", "margin-top", "auto", "margin-bottom", "auto"),
		decl("mt-auto", "margin-top", "auto"),
		decl("mr-auto", "margin-right", "auto"),
		decl("mb-auto", "margin-bottom", "auto"),
		decl("ml-auto", "margin-left", "auto"),
	}
}

func displays() []Static {
	return kw("display",
		"block", "block",
		"inline-block", "inline-block",
		"inline", "inline",
		"flex", "flex",
		"inline-flex", "inline-flex",
		"table", "table",
		"table-row", "table-row",
		"table-cell", "table-cell",
		"flow-root", "flow-root",
		"grid", "grid",
		"inline-grid", "inline-grid",
		"contents", "contents",
		"list-item", "list-item",
		"hidden", "none",
	)
}

func sizeKeywords(prefix, property, screen string) []Static {
	return kw(property,
		prefix+"-auto", "auto",
		prefix+"-full", "100%",
		prefix+"-screen", screen,
		prefix+"-min", "min-content",
		prefix+"-max", "max-content",
		prefix+"-fit", "fit-content",
	)
}

func fractions(prefix, property string) []Static {
	var out []Static
	for _, d := range []int{2, 3, 4, 5, 6, 12} {
		for n := 1; n < d; n++ {
			v := strconv.FormatFloat(float64(n)*100/float64(d), 'f', 6, 64)
			v = trimZeros(v) + "%"
			out = append(out, decl(prefix+"-"+strconv.Itoa(n)+"/"+strconv.Itoa(d), property, v))
		}
	}
	return out
}

func trimZeros(v string) string {
	for len(v) > 0 && v[len(v)-1] == '0' {
		v = v[:len(v)-1]
	}
	if len(v) > 0 && v[len(v)-1] == '.' {
		v = v[:len(v)-1]
	}
	return v
}

func maxWidths() []Static {
	return kw("max-width",
		"max-w-0", "0rem",
		"max-w-none", "none",
		"max-w-xs", "20rem",
		"max-w-sm", "24rem",
		"max-w-md", "28rem",
		"max-w-lg", "32rem",
		"max-w-xl", "36rem",
		"max-w-2xl", "42rem",
		"max-w-3xl", "48rem",
		"max-w-4xl", "56rem",
		"max-w-5xl", "64rem",
		"max-w-6xl", "72rem",
		"max-w-7xl", "80rem",
		"max-w-full", "100%",
		"max-w-min", "min-content",
		"max-w-max", "max-content",
		"max-w-fit", "fit-content",
		"max-w-prose", "65ch",
	)
}

func flexShorthands() []Static {
	return []Static{
		decl("flex-1", "flex", "1 1 0%"),
		decl("flex-auto", "flex", "1 1 auto"),
		decl("flex-initial", "flex", "0 1 auto"),
		decl("flex-none", "flex", "none"),
		decl("grow", "flex-grow", "1"),
		decl("grow-0", "flex-grow", "0"),
		decl("shrink", "flex-shrink", "1"),
		decl("shrink-0", "flex-shrink", "0"),
	}
}

func cursors() []Static {
	var pairs []string
	for _, c := range []string{"auto", "default", "pointer", "wait", "text", "move", "help", "not-allowed", "none", "progress", "grab", "grabbing"} {
		pairs = append(pairs, "cursor-"+c, c)
	}
	return kw("cursor", pairs...)
}

func gridColumns() []Static {
	var out []Static
	for i := 1; i <= 12; i++ {
		out = append(out, decl("grid-cols-"+strconv.Itoa(i), "grid-template-columns", "repeat("+strconv.Itoa(i)+", minmax(0, 1fr))"))
	}
	return append(out, decl("grid-cols-none", "grid-template-columns", "none"))
}

func colSpans() []Static {
	out := []Static{decl("col-auto", "grid-column", "auto")}
	for i := 1; i <= 12; i++ {
		out = append(out, decl("col-span-"+strconv.Itoa(i), "grid-column", "span "+strconv.Itoa(i)+" / span "+strconv.Itoa(i)))
	}
	return append(out, decl("col-span-full", "grid-column", "1 / -1"))
}

func overflows() []Static {
	var out []Static
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		out = append(out, decl("overflow-"+v, "overflow", v))
	}
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		out = append(out, decl("overflow-x-"+v, "overflow-x", v))
	}
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		out = append(out, decl("overflow-y-"+v, "overflow-y", v))
	}
	return out
}

func textOverflow() []Static {
	return []Static{
		decl("truncate", "overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap"),
		decl("text-ellipsis", "text-overflow", "ellipsis"),
		decl("text-clip", "text-overflow", "clip"),
	}
}

func breaks() []Static {
	return []Static{
		decl("break-normal", "overflow-wrap", "normal", "word-break", "normal"),
		decl("break-words", "overflow-wrap", "break-word"),
		decl("break-all", "word-break", "break-all"),
	}
}

func outlines() []Static {
	return []Static{
		decl("outline-none", "outline", "2px solid transparent", "outline-offset", "2px"),
		decl("outline", "outline-style", "solid"),
		decl("outline-dashed", "outline-style", "dashed"),
		decl("outline-dotted", "outline-style", "dotted"),
	}
}

const (
	defaultEase     = "cubic-bezier(0.4, 0, 0.2, 1)"
	defaultDuration = "150ms"
)

func transitions() []Static {
	t := func(name, property string) Static {
		return decl(name,
			"transition-property", property,
			"transition-timing-function", defaultEase,
			"transition-duration", defaultDuration)
	}
	return []Static{
		decl("transition-none", "transition-property", "none"),
		t("transition-all", "all"),
		t("transition", "color, background-color, border-color, text-decoration-color, fill, stroke, opacity, box-shadow, transform, filter"),
		t("transition-colors", "color, background-color, border-color, text-decoration-color, fill, stroke"),
		t("transition-opacity", "opacity"),
		t("transition-shadow", "box-shadow"),
		t("transition-transform", "transform"),
	}
}

func durations() []Static {
	var pairs []string
	for _, ms := range []int{0, 75, 100, 150, 200, 300, 500, 700, 1000} {
		pairs = append(pairs, "duration-"+strconv.Itoa(ms), strconv.Itoa(ms)+"ms")
	}
	return kw("transition-duration", pairs...)
}
