package theme

import (
	"fmt"
	"strconv"
	"sync"
)

// Default returns the base token table. The returned Theme is shared.
func Default() *Theme {
	return defaultTheme()
}

var defaultTheme = sync.OnceValue(buildDefault)

var shades = []string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

var palettes = []struct {
	name   string
	values []string
}{
	{"slate", []string{"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"}},
	{"gray", []string{"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"}},
	{"zinc", []string{"#fafafa", "#f4f4f5", "#e4e4e7", "#d4d4d8", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a", "#18181b", "#09090b"}},
	{"neutral", []string{"#fafafa", "#f5f5f5", "#e5e5e5", "#d4d4d4", "#a3a3a3", "#737373", "#525252", "#404040", "#262626", "#171717", "#0a0a0a"}},
	{"stone", []string{"#fafaf9", "#f5f5f4", "#e7e5e4", "#d6d3d1", "#a8a29e", "#78716c", "#57534e", "#44403c", "#292524", "#1c1917", "#0c0a09"}},
	{"red", []string{"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"}},
	{"orange", []string{"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"}},
	{"amber", []string{"#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f", "#451a03"}},
	{"yellow", []string{"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"}},
	{"lime", []string{"#f7fee7", "#ecfccb", "#d9f99d", "#bef264", "#a3e635", "#84cc16", "#65a30d", "#4d7c0f", "#3f6212", "#365314", "#1a2e05"}},
	{"green", []string{"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"}},
	{"emerald", []string{"#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b", "#022c22"}},
	{"teal", []string{"#f0fdfa", "#ccfbf1", "#99f6e4", "#5eead4", "#2dd4bf", "#14b8a6", "#0d9488", "#0f766e", "#115e59", "#134e4a", "#042f2e"}},
	{"cyan", []string{"#ecfeff", "#cffafe", "#a5f3fc", "#67e8f9", "#22d3ee", "#06b6d4", "#0891b2", "#0e7490", "#155e75", "#164e63", "#083344"}},
	{"sky", []string{"#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e", "#082f49"}},
	{"blue", []string{"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"}},
	{"indigo", []string{"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"}},
	{"violet", []string{"#f5f3ff", "#ede9fe", "#ddd6fe", "#c4b5fd", "#a78bfa", "#8b5cf6", "#7c3aed", "#6d28d9", "#5b21b6", "#4c1d95", "#2e1065"}},
	{"purple", []string{"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"}},
	{"fuchsia", []string{"#fdf4ff", "#fae8ff", "#f5d0fe", "#f0abfc", "#e879f9", "#d946ef", "#c026d3", "#a21caf", "#86198f", "#701a75", "#4a044e"}},
	{"pink", []string{"#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843", "#500724"}},
	{"rose", []string{"#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337", "#4c0519"}},
}

// spacing steps in pixels; rendered as rem (px / 16).
var spacingSteps = []struct {
	name string
	px   float64
}{
	{"0", 0}, {"px", 1}, {"0.5", 2}, {"1", 4}, {"1.5", 6}, {"2", 8}, {"2.5", 10},
	{"3", 12}, {"3.5", 14}, {"4", 16}, {"5", 20}, {"6", 24}, {"7", 28}, {"8", 32},
	{"9", 36}, {"10", 40}, {"11", 44}, {"12", 48}, {"14", 56}, {"16", 64}, {"20", 80},
	{"24", 96}, {"28", 112}, {"32", 128}, {"36", 144}, {"40", 160}, {"44", 176},
	{"48", 192}, {"52", 208}, {"56", 224}, {"60", 240}, {"64", 256}, {"72", 288},
	{"80", 320}, {"96", 384},
}

type kv struct {
	name string
	raw  any
}

func buildDefault() *Theme {
	t := &Theme{scales: make(map[Category]*Scale), darkMode: DarkModeMedia}

	colors := []kv{
		{"inherit", "inherit"},
		{"current", "currentColor"},
		{"transparent", "transparent"},
		{"black", "#000000"},
		{"white", "#ffffff"},
	}
	for _, p := range palettes {
		for i, shade := range shades {
			colors = append(colors, kv{p.name + "-" + shade, p.values[i]})
		}
	}
	mustScale(t, CategoryColors, colors)

	var spacing []kv
	for _, s := range spacingSteps {
		switch s.name {
		case "0":
			spacing = append(spacing, kv{s.name, "0px"})
		case "px":
			spacing = append(spacing, kv{s.name, "1px"})
		default:
			spacing = append(spacing, kv{s.name, rem(s.px)})
		}
	}
	mustScale(t, CategorySpacing, spacing)

	mustScale(t, CategoryBorderRadius, []kv{
		{"none", "0px"}, {"sm", "0.125rem"}, {DefaultName, "0.25rem"}, {"md", "0.375rem"},
		{"lg", "0.5rem"}, {"xl", "0.75rem"}, {"2xl", "1rem"}, {"3xl", "1.5rem"}, {"full", "9999px"},
	})

	mustScale(t, CategoryBorderWidth, []kv{
		{DefaultName, "1px"}, {"0", "0px"}, {"2", "2px"}, {"4", "4px"}, {"8", "8px"},
	})

	mustScale(t, CategoryFontFamily, []kv{
		{"sans", []any{"ui-sans-serif", "system-ui", "sans-serif", "Apple Color Emoji", "Segoe UI Emoji", "Segoe UI Symbol", "Noto Color Emoji"}},
		{"serif", []any{"ui-serif", "Georgia", "Cambria", "Times New Roman", "Times", "serif"}},
		{"mono", []any{"ui-monospace", "SFMono-Regular", "Menlo", "Monaco", "Consolas", "Liberation Mono", "Courier New", "monospace"}},
	})

	mustScale(t, CategoryFontSize, []kv{
		{"xs", []any{"0.75rem", "1rem"}},
		{"sm", []any{"0.875rem", "1.25rem"}},
		{"base", []any{"1rem", "1.5rem"}},
		{"lg", []any{"1.125rem", "1.75rem"}},
		{"xl", []any{"1.25rem", "1.75rem"}},
		{"2xl", []any{"1.5rem", "2rem"}},
		{"3xl", []any{"1.875rem", "2.25rem"}},
		{"4xl", []any{"2.25rem", "2.5rem"}},
		{"5xl", []any{"3rem", "1"}},
		{"6xl", []any{"3.75rem", "1"}},
		{"7xl", []any{"4.5rem", "1"}},
		{"8xl", []any{"6rem", "1"}},
		{"9xl", []any{"8rem", "1"}},
	})

	mustScale(t, CategoryFontWeight, []kv{
		{"thin", 100}, {"extralight", 200}, {"light", 300}, {"normal", 400}, {"medium", 500},
		{"semibold", 600}, {"bold", 700}, {"extrabold", 800}, {"black", 900},
	})

	var opacity []kv
	for i := 0; i <= 100; i += 5 {
		opacity = append(opacity, kv{strconv.Itoa(i), strconv.FormatFloat(float64(i)/100, 'f', -1, 64)})
	}
	mustScale(t, CategoryOpacity, opacity)

	mustScale(t, CategoryBoxShadow, []kv{
		{"sm", "0 1px 2px 0 rgb(0 0 0 / 0.05)"},
		{DefaultName, "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)"},
		{"md", "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)"},
		{"lg", "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)"},
		{"xl", "0 20px 25px -5px rgb(0 0 0 / 0.1), 0 8px 10px -6px rgb(0 0 0 / 0.1)"},
		{"2xl", "0 25px 50px -12px rgb(0 0 0 / 0.25)"},
		{"inner", "inset 0 2px 4px 0 rgb(0 0 0 / 0.05)"},
		{"none", "none"},
	})

	mustScale(t, CategoryZIndex, []kv{
		{"0", 0}, {"10", 10}, {"20", 20}, {"30", 30}, {"40", 40}, {"50", 50}, {"auto", "auto"},
	})

	mustScale(t, CategoryAnimation, []kv{
		{"none", "none"},
		{"spin", "spin 1s linear infinite"},
		{"ping", "ping 1s cubic-bezier(0, 0, 0.2, 1) infinite"},
		{"pulse", "pulse 2s cubic-bezier(0.4, 0, 0.6, 1) infinite"},
		{"bounce", "bounce 1s infinite"},
	})

	mustScale(t, CategoryKeyframes, []kv{
		{"spin", "to{transform:rotate(360deg)}"},
		{"ping", "75%,100%{transform:scale(2);opacity:0}"},
		{"pulse", "50%{opacity:.5}"},
		{"bounce", "0%,100%{transform:translateY(-25%);animation-timing-function:cubic-bezier(0.8,0,1,1)}50%{transform:none;animation-timing-function:cubic-bezier(0,0,0.2,1)}"},
	})

	mustScale(t, CategoryScreens, []kv{
		{"sm", "640px"}, {"md", "768px"}, {"lg", "1024px"}, {"xl", "1280px"}, {"2xl", "1536px"},
	})

	return t
}

func mustScale(t *Theme, c Category, entries []kv) {
	s := newScale()
	for _, e := range entries {
		v, err := normalize(c, e.name, e.raw)
		if err != nil {
			panic(fmt.Sprintf("theme: invalid default token: %v", err))
		}
		s.set(e.name, v)
	}
	t.scales[c] = s
}

func rem(px float64) string {
	return strconv.FormatFloat(px/16, 'f', -1, 64) + "rem"
}
