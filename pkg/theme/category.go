package theme

// Category names one of the closed set of token groups a theme carries.
type Category string

const (
	CategoryColors       Category = "colors"
	CategorySpacing      Category = "spacing"
	CategoryBorderRadius Category = "borderRadius"
	CategoryBorderWidth  Category = "borderWidth"
	CategoryFontFamily   Category = "fontFamily"
	CategoryFontSize     Category = "fontSize"
	CategoryFontWeight   Category = "fontWeight"
	CategoryOpacity      Category = "opacity"
	CategoryBoxShadow    Category = "boxShadow"
	CategoryZIndex       Category = "zIndex"
	CategoryAnimation    Category = "animation"
	CategoryKeyframes    Category = "keyframes"
	CategoryScreens      Category = "screens"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	CategoryColors,
	CategorySpacing,
	CategoryBorderRadius,
	CategoryBorderWidth,
	CategoryFontFamily,
	CategoryFontSize,
	CategoryFontWeight,
	CategoryOpacity,
	CategoryBoxShadow,
	CategoryZIndex,
	CategoryAnimation,
	CategoryKeyframes,
	CategoryScreens,
}

// ParseCategory maps a configuration key onto a Category.
func ParseCategory(key string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == key {
			return c, true
		}
	}
	return "", false
}

// DefaultName is the token name that generates the bare utility prefix
// (borderRadius.DEFAULT -> "rounded").
const DefaultName = "DEFAULT"
