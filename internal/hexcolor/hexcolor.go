// Package hexcolor parses and formats the CSS hex colors used in layer
// properties.
package hexcolor

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Parse decodes "#RRGGBB" or "#RGB" (the leading '#' is optional). The second
// return value is false for anything else, including "transparent" and rgba().
func Parse(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 && len(s) != 4 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// MustParse is Parse falling back to black for unparseable input.
func MustParse(s string) colorful.Color {
	c, _ := Parse(s)
	return c
}

// Format renders c as upper-case "#RRGGBB".
func Format(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

// Normalize returns s in canonical upper-case six-digit form, or s unchanged
// when it is not a hex color.
func Normalize(s string) string {
	c, ok := Parse(s)
	if !ok {
		return s
	}
	return Format(c)
}

// IsOpaque reports whether s names a paintable color with a nonzero alpha.
// The alpha of "#RGBA", "#RRGGBBAA" and functional notation such as
// rgba(0, 0, 0, 0) or rgb(0 0 0 / 0%) is honored.
func IsOpaque(s string) bool {
	s = strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch {
	case s == "" || s == "transparent" || s == "none":
		return false
	case strings.HasPrefix(s, "#") && (len(s) == 5 || len(s) == 9):
		digits := (len(s) - 1) / 4
		a, err := strconv.ParseUint(s[len(s)-digits:], 16, 8)
		return err != nil || a > 0
	case strings.HasSuffix(s, ")"):
		if a, ok := alpha(s); ok {
			return a > 0
		}
	}
	return true
}

// alpha extracts the alpha component of a functional color, reporting
// false when there is none.
func alpha(s string) (float64, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return 0, false
	}
	args := s[open+1 : len(s)-1]
	var a string
	if _, after, ok := strings.Cut(args, "/"); ok {
		a = after
	} else if parts := strings.Split(args, ","); len(parts) == 4 {
		a = parts[3]
	} else {
		return 0, false
	}
	scale := 1.0
	if pct, ok := strings.CutSuffix(a, "%"); ok {
		a, scale = pct, 0.01
	}
	v, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, false
	}
	return v * scale, true
}

// RGB255 returns the 0-255 channel values of c.
func RGB255(c colorful.Color) (r, g, b uint8) {
	return c.Clamped().RGB255()
}
