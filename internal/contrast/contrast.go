// Package contrast checks text legibility against WCAG 2.x contrast
// thresholds and repairs failing text colors.
package contrast

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// WCAG thresholds.
const (
	AANormal  = 4.5
	AALarge   = 3.0
	AAANormal = 7.0
	AAALarge  = 4.5
)

const (
	Black = "#000000"
	White = "#FFFFFF"
)

// DefaultBackground is assumed when a template has no background layer.
const DefaultBackground = White

// Result is the outcome of checking one color pair.
type Result struct {
	Ratio      float64 `json:"ratio"`
	AANormal   bool    `json:"aa_normal"`
	AALarge    bool    `json:"aa_large"`
	AAANormal  bool    `json:"aaa_normal"`
	AAALarge   bool    `json:"aaa_large"`
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
}

// Luminance returns the WCAG relative luminance of c.
func Luminance(c colorful.Color) float64 {
	lin := func(v float64) float64 {
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	c = c.Clamped()
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// Ratio returns the contrast ratio between two hex colors, in [1, 21].
// Unparseable colors are treated as black.
func Ratio(a, b string) float64 {
	la := Luminance(hexcolor.MustParse(a))
	lb := Luminance(hexcolor.MustParse(b))
	lighter, darker := math.Max(la, lb), math.Min(la, lb)
	return (lighter + 0.05) / (darker + 0.05)
}

// Validate checks foreground over background against every WCAG level.
func Validate(foreground, background string) Result {
	r := Ratio(foreground, background)
	return Result{
		Ratio:      math.Round(r*100) / 100,
		AANormal:   r >= AANormal,
		AALarge:    r >= AALarge,
		AAANormal:  r >= AAANormal,
		AAALarge:   r >= AAALarge,
		Foreground: foreground,
		Background: background,
	}
}

// HasEnoughContrast reports whether the pair meets minRatio.
func HasEnoughContrast(foreground, background string, minRatio float64) bool {
	return Ratio(foreground, background) >= minRatio
}

// SuggestTextColor returns preferred when it clears AA-normal over
// background, else white or black, whichever clears it (white first). When
// neither does, the higher-contrast of the two wins.
func SuggestTextColor(background, preferred string) string {
	if preferred != "" && Ratio(preferred, background) >= AANormal {
		return preferred
	}
	white := Ratio(White, background)
	black := Ratio(Black, background)
	switch {
	case white >= AANormal:
		return White
	case black >= AANormal:
		return Black
	case white > black:
		return White
	}
	return Black
}

// Violation is a text layer whose color fails AA-normal.
type Violation struct {
	Type       string  `json:"type"`
	LayerIndex int     `json:"layer_index"`
	Layer      string  `json:"layer"`
	Field      string  `json:"field"`
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio"`
	Required   float64 `json:"required"`
	Suggested  string  `json:"suggested"`
}

// ViolationType tags every Violation.
const ViolationType = "contrast_violation"

// BackgroundFor returns the color behind the layer at index i: the topmost
// opaque rectangle or background layer earlier in the stack that covers the
// layer's top edge, else fallback.
func BackgroundFor(layers []layer.Layer, i int, fallback string) string {
	target := layers[i].Rect()
	for j := i - 1; j >= 0; j-- {
		l := layers[j]
		if l.Hidden || l.Shape == nil || l.Type != layer.TypeRectangle {
			continue
		}
		fill := l.Shape.Fill
		if _, ok := hexcolor.Parse(fill); !ok {
			continue
		}
		r := l.Rect()
		if r.X <= target.X && r.Right() >= target.Right() && r.Y <= target.Y && r.Bottom() > target.Y {
			return fill
		}
	}
	return fallback
}

// ValidateLayers checks text fills against the background behind them and
// textbox text colors against the textbox's own fill.
func ValidateLayers(layers []layer.Layer, background string) []Violation {
	var out []Violation
	for i, l := range layers {
		if l.Text == nil {
			continue
		}
		var fg, bg, field string
		switch l.Type {
		case layer.TypeText:
			fg, field = l.Text.Fill, "fill"
			bg = BackgroundFor(layers, i, background)
		case layer.TypeTextbox:
			if _, ok := hexcolor.Parse(l.Text.Fill); !ok {
				continue
			}
			fg, field = l.Text.TextColor, "textColor"
			bg = l.Text.Fill
		default:
			continue
		}
		if _, ok := hexcolor.Parse(fg); !ok {
			continue
		}
		r := Ratio(fg, bg)
		if r >= AANormal {
			continue
		}
		out = append(out, Violation{
			Type:       ViolationType,
			LayerIndex: i,
			Layer:      l.Name,
			Field:      field,
			Foreground: fg,
			Background: bg,
			Ratio:      math.Round(r*100) / 100,
			Required:   AANormal,
			Suggested:  SuggestTextColor(bg, ""),
		})
	}
	return out
}

// FixLayers returns a copy of layers with every failing text color replaced
// by SuggestTextColor. Only the failing field changes.
func FixLayers(layers []layer.Layer, background string) ([]layer.Layer, []Violation) {
	violations := ValidateLayers(layers, background)
	if len(violations) == 0 {
		return layers, nil
	}
	out := layer.CloneAll(layers)
	for _, v := range violations {
		t := out[v.LayerIndex].Text
		switch v.Field {
		case "fill":
			t.Fill = v.Suggested
		case "textColor":
			t.TextColor = v.Suggested
		}
		log.Debug().
			Str("layer", v.Layer).
			Str("field", v.Field).
			Str("from", v.Foreground).
			Str("to", v.Suggested).
			Float64("ratio", v.Ratio).
			Msg("Contrast fixed")
	}
	return out, violations
}
