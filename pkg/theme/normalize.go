package theme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type rawEntry struct {
	name string
	raw  any
}

// flatten turns a category map into name/value entries. Nested maps are
// only meaningful for colors, where keys join with "-" and DEFAULT names
// the group itself.
func flatten(cat Category, raw any) ([]rawEntry, error) {
	m, ok := asMap(raw)
	if !ok {
		return nil, &InvalidTokenError{Category: string(cat), Reason: fmt.Sprintf("expected a map of tokens, got %T", raw)}
	}

	var out []rawEntry
	var walk func(prefix string, m map[string]any) error
	walk = func(prefix string, m map[string]any) error {
		for _, k := range sortedKeys(m) {
			v := m[k]
			name := k
			if prefix != "" {
				name = prefix + "-" + k
				if k == DefaultName {
					name = prefix
				}
			}
			if nested, ok := asMap(v); ok {
				if cat != CategoryColors {
					return &InvalidTokenError{Category: string(cat), Name: name, Reason: "nested token groups are only allowed for colors"}
				}
				if err := walk(name, nested); err != nil {
					return err
				}
				continue
			}
			if name == "" {
				return &InvalidTokenError{Category: string(cat), Reason: "empty token name"}
			}
			out = append(out, rawEntry{name: name, raw: v})
		}
		return nil
	}
	if err := walk("", m); err != nil {
		return nil, err
	}
	return out, nil
}

// normalize validates raw against the shape of cat.
func normalize(cat Category, name string, raw any) (Value, error) {
	invalid := func(value, reason string) (Value, error) {
		return Value{}, &InvalidTokenError{Category: string(cat), Name: name, Value: value, Reason: reason}
	}

	list, isList := asStringList(raw)
	s, isScalar := asScalar(raw)
	if !isList && !isScalar {
		return invalid(fmt.Sprint(raw), fmt.Sprintf("unsupported value type %T", raw))
	}

	switch cat {
	case CategoryColors:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "color must be a string")
		}
		c, err := ValidateColor(s)
		if err != nil {
			return invalid(s, err.Error())
		}
		return Value{Raw: c}, nil

	case CategorySpacing, CategoryBorderRadius, CategoryBorderWidth:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected a single length")
		}
		if err := ValidateLength(s); err != nil {
			return invalid(s, err.Error())
		}
		return Value{Raw: s}, nil

	case CategoryScreens:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected a single length")
		}
		px, err := screenPixels(s)
		if err != nil {
			return invalid(s, err.Error())
		}
		return Value{Raw: s, Pixels: px}, nil

	case CategoryFontFamily:
		if isScalar {
			list = strings.Split(s, ",")
		}
		var fams []string
		for _, f := range list {
			if f = strings.TrimSpace(f); f != "" {
				fams = append(fams, quoteFamily(f))
			}
		}
		if len(fams) == 0 {
			return invalid(fmt.Sprint(raw), "font family list is empty")
		}
		return Value{List: fams}, nil

	case CategoryFontSize:
		if isScalar {
			list = []string{s}
		}
		if len(list) == 0 || len(list) > 2 {
			return invalid(fmt.Sprint(raw), "expected size or [size, line-height]")
		}
		if err := ValidateLength(list[0]); err != nil {
			return invalid(list[0], err.Error())
		}
		return Value{Raw: list[0], List: list}, nil

	case CategoryFontWeight:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected a number")
		}
		f, err := ValidateNumber(s, 1, 1000)
		if err != nil || f != float64(int(f)) {
			return invalid(s, "font weight must be an integer between 1 and 1000")
		}
		return Value{Raw: s}, nil

	case CategoryOpacity:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected a number")
		}
		if strings.HasSuffix(s, "%") {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil || f < 0 || f > 100 {
				return invalid(s, "percentage must be between 0% and 100%")
			}
			return Value{Raw: s}, nil
		}
		if _, err := ValidateNumber(s, 0, 1); err != nil {
			return invalid(s, err.Error())
		}
		return Value{Raw: s}, nil

	case CategoryZIndex:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected an integer")
		}
		if s == "auto" {
			return Value{Raw: s}, nil
		}
		if _, err := strconv.Atoi(s); err != nil {
			return invalid(s, "z-index must be an integer or auto")
		}
		return Value{Raw: s}, nil

	case CategoryBoxShadow, CategoryKeyframes:
		if isList {
			s = strings.Join(list, ", ")
		}
		if strings.TrimSpace(s) == "" {
			return invalid(s, "value is empty")
		}
		return Value{Raw: strings.TrimSpace(s)}, nil

	case CategoryAnimation:
		if !isScalar {
			return invalid(fmt.Sprint(raw), "expected an animation shorthand")
		}
		if s == "none" {
			return Value{Raw: s}, nil
		}
		a, err := parseAnimation(s)
		if err != nil {
			return invalid(s, err.Error())
		}
		return Value{Raw: a.CSS(), Animation: a}, nil
	}

	return invalid(fmt.Sprint(raw), "unknown category")
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

func asScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

// asStringList accepts lists of scalars. A trailing map element (the
// {lineHeight: ...} form of fontSize) contributes its lineHeight.
func asStringList(v any) ([]string, bool) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []string:
		return x, true
	default:
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := asScalar(it); ok {
			out = append(out, s)
			continue
		}
		if m, ok := asMap(it); ok {
			if lh, ok := asScalar(m["lineHeight"]); ok {
				out = append(out, lh)
				continue
			}
		}
		return nil, false
	}
	return out, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return NaturalLess(keys[i], keys[j]) })
	return keys
}

// NaturalLess orders names with embedded numbers numerically, so that
// brand-50 < brand-100 and 0.5 < 1 < 10.
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := chunk(a), chunk(b)
		a, b = a[len(ca):], b[len(cb):]
		if ca == cb {
			continue
		}
		na, aNum := numeric(ca)
		nb, bNum := numeric(cb)
		switch {
		case aNum && bNum:
			if na != nb {
				return na < nb
			}
			return ca < cb
		case aNum != bNum:
			return aNum
		default:
			return ca < cb
		}
	}
	return len(a) < len(b)
}

// chunk returns the leading run of digits (with one decimal point) or non-digits.
func chunk(s string) string {
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	i := 1
	if isDigit(s[0]) {
		dot := false
		for i < len(s) && (isDigit(s[i]) || (s[i] == '.' && !dot && i+1 < len(s) && isDigit(s[i+1]))) {
			if s[i] == '.' {
				dot = true
			}
			i++
		}
		return s[:i]
	}
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	return s[:i]
}

func numeric(s string) (float64, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
