package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var colorFunctions = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
	"lab": true, "lch": true, "oklab": true, "oklch": true,
	"color": true, "color-mix": true, "var": true,
}

var colorKeywords = map[string]string{
	"transparent":  "transparent",
	"current":      "currentColor",
	"currentcolor": "currentColor",
	"inherit":      "inherit",
	"black":        "black",
	"white":        "white",
	"red":          "red",
	"green":        "green",
	"blue":         "blue",
	"yellow":       "yellow",
	"orange":       "orange",
	"purple":       "purple",
	"gray":         "gray",
	"grey":         "grey",
	"silver":       "silver",
	"maroon":       "maroon",
	"navy":         "navy",
	"teal":         "teal",
	"olive":        "olive",
	"lime":         "lime",
	"aqua":         "aqua",
	"fuchsia":      "fuchsia",
}

var lengthFunctions = map[string]bool{
	"calc": true, "var": true, "min": true, "max": true, "clamp": true, "env": true,
}

var timingKeywords = map[string]bool{
	"linear": true, "ease": true, "ease-in": true, "ease-out": true,
	"ease-in-out": true, "step-start": true, "step-end": true,
}

// cssTokens splits s into significant CSS tokens, dropping whitespace and comments.
func cssTokens(s string) ([]*scanner.Token, error) {
	var out []*scanner.Token
	sc := scanner.New(s)
	for {
		tok := sc.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return out, nil
		case scanner.TokenError:
			return nil, fmt.Errorf("malformed CSS near %q", tok.Value)
		case scanner.TokenS, scanner.TokenComment:
			continue
		}
		out = append(out, tok)
	}
}

// functionCall reports whether toks is exactly one balanced function call
// and returns its lowercase name.
func functionCall(toks []*scanner.Token) (string, bool) {
	if len(toks) < 2 || toks[0].Type != scanner.TokenFunction {
		return "", false
	}
	depth := 0
	for i, t := range toks {
		switch {
		case t.Type == scanner.TokenFunction:
			depth++
		case t.Type == scanner.TokenChar && t.Value == "(":
			depth++
		case t.Type == scanner.TokenChar && t.Value == ")":
			depth--
			if depth == 0 && i != len(toks)-1 {
				return "", false
			}
		}
	}
	if depth != 0 {
		return "", false
	}
	return strings.ToLower(strings.TrimSuffix(toks[0].Value, "(")), true
}

// ValidateColor checks a color literal and returns its canonical CSS text.
func ValidateColor(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	toks, err := cssTokens(raw)
	if err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", fmt.Errorf("empty color")
	}

	if len(toks) == 1 {
		switch toks[0].Type {
		case scanner.TokenHash:
			if err := validateHex(toks[0].Value); err != nil {
				return "", err
			}
			return strings.ToLower(toks[0].Value), nil
		case scanner.TokenIdent:
			if kw, ok := colorKeywords[strings.ToLower(toks[0].Value)]; ok {
				return kw, nil
			}
			return "", fmt.Errorf("unknown color keyword %q", toks[0].Value)
		}
	}

	if name, ok := functionCall(toks); ok {
		if colorFunctions[name] {
			return raw, nil
		}
		return "", fmt.Errorf("%s() is not a color function", name)
	}
	return "", fmt.Errorf("not a color")
}

func validateHex(h string) error {
	digits := strings.TrimPrefix(h, "#")
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("invalid hex digit %q", r)
		}
	}
	switch len(digits) {
	case 3, 6:
		_, err := colorful.Hex(h)
		return err
	case 4, 8:
		// colorful has no alpha form; check the opaque prefix.
		_, err := colorful.Hex("#" + digits[:len(digits)*3/4])
		return err
	default:
		return fmt.Errorf("hex color must have 3, 4, 6 or 8 digits")
	}
}

// ValidateLength checks a single CSS length-like value.
func ValidateLength(raw string) error {
	toks, err := cssTokens(raw)
	if err != nil {
		return err
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty length")
	}
	if len(toks) == 1 {
		t := toks[0]
		switch t.Type {
		case scanner.TokenDimension, scanner.TokenPercentage:
			return nil
		case scanner.TokenNumber:
			if f, err := strconv.ParseFloat(t.Value, 64); err == nil && f == 0 {
				return nil
			}
			return fmt.Errorf("unitless length %q (only 0 may omit a unit)", t.Value)
		}
		return fmt.Errorf("not a length")
	}
	if name, ok := functionCall(toks); ok && lengthFunctions[name] {
		return nil
	}
	return fmt.Errorf("not a single length")
}

// screenPixels converts a px/rem/em dimension to pixels.
func screenPixels(raw string) (float64, error) {
	toks, err := cssTokens(raw)
	if err != nil {
		return 0, err
	}
	if len(toks) != 1 || toks[0].Type != scanner.TokenDimension {
		return 0, fmt.Errorf("screen must be a px, rem or em dimension")
	}
	num, unit := splitDimension(toks[0].Value)
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", num)
	}
	switch strings.ToLower(unit) {
	case "px":
		return f, nil
	case "rem", "em":
		return f * 16, nil
	}
	return 0, fmt.Errorf("unsupported screen unit %q", unit)
}

func splitDimension(v string) (num, unit string) {
	i := 0
	for i < len(v) && (v[i] >= '0' && v[i] <= '9' || v[i] == '.' || v[i] == '-' || v[i] == '+') {
		i++
	}
	return v[:i], v[i:]
}

// ValidateNumber checks a bare number, optionally within [min, max].
func ValidateNumber(raw string, min, max float64) (float64, error) {
	toks, err := cssTokens(raw)
	if err != nil {
		return 0, err
	}
	if len(toks) != 1 || toks[0].Type != scanner.TokenNumber {
		return 0, fmt.Errorf("not a number")
	}
	f, err := strconv.ParseFloat(toks[0].Value, 64)
	if err != nil {
		return 0, err
	}
	if f < min || f > max {
		return 0, fmt.Errorf("%g is outside [%g, %g]", f, min, max)
	}
	return f, nil
}

// parseAnimation reads "name duration [timing] [delay] [iterations] ...".
func parseAnimation(raw string) (*Animation, error) {
	toks, err := cssTokens(raw)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 || toks[0].Type != scanner.TokenIdent {
		return nil, fmt.Errorf("animation must start with a keyframes name")
	}

	a := &Animation{Name: toks[0].Value}
	for i := 1; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Type == scanner.TokenDimension && isTime(t.Value):
			if a.Duration == "" {
				a.Duration = t.Value
			} else if a.Delay == "" {
				a.Delay = t.Value
			} else {
				return nil, fmt.Errorf("too many time values")
			}
		case t.Type == scanner.TokenIdent && timingKeywords[t.Value]:
			a.TimingFunction = t.Value
		case t.Type == scanner.TokenFunction:
			end := i
			for end < len(toks) && !(toks[end].Type == scanner.TokenChar && toks[end].Value == ")") {
				end++
			}
			if end == len(toks) {
				return nil, fmt.Errorf("unterminated %s", t.Value)
			}
			a.TimingFunction = joinCall(toks[i : end+1])
			i = end
		case t.Type == scanner.TokenIdent && t.Value == "infinite",
			t.Type == scanner.TokenNumber:
			a.IterationCount = t.Value
		case t.Type == scanner.TokenIdent:
			a.Extra = append(a.Extra, t.Value)
		default:
			return nil, fmt.Errorf("unexpected %q in animation", t.Value)
		}
	}
	if a.Duration == "" {
		return nil, fmt.Errorf("animation %q has no duration", a.Name)
	}
	return a, nil
}

func isTime(v string) bool {
	_, unit := splitDimension(v)
	return unit == "s" || unit == "ms"
}

// joinCall re-serializes a function call, normalizing comma spacing.
func joinCall(toks []*scanner.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Value)
		if t.Type == scanner.TokenChar && t.Value == "," {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
