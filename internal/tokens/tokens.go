// Package tokens holds the fixed design-token system generated layouts are
// snapped onto: the modular font scale, spacing scale, corner radii, stroke
// widths, vertical rhythm and the brand palette fallback.
package tokens

import (
	"math"
	"strings"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// FontScale is a Major Third (1.25) modular scale.
var FontScale = [...]float64{13, 16, 20, 25, 31, 39, 49, 61, 76, 95}

var fontScaleKeys = [...]string{"xs", "sm", "md", "lg", "xl", "2xl", "3xl", "4xl", "5xl", "6xl"}

// Spacing is the spacing scale used for padding and gaps.
var Spacing = [...]float64{8, 16, 24, 32, 48, 64, 80, 96, 120}

// CornerRadii lists the allowed corner radii; 500 renders as a pill.
var CornerRadii = [...]float64{0, 8, 12, 16, 24, 500}

// StrokeWidths lists the allowed stroke widths.
var StrokeWidths = [...]float64{1, 2, 3, 4, 6, 8}

const (
	// Baseline is the vertical rhythm unit line heights align to.
	Baseline = 8
	// SafeMarginRatio is the share of each canvas dimension kept clear per edge.
	SafeMarginRatio = 0.10
	// MinimumMargin is the smallest safe margin in pixels.
	MinimumMargin = 80
)

// closest returns the member of scale nearest to v. Scales are ascending, so
// a value equidistant between two steps resolves to the lower one.
func closest(v float64, scale []float64) float64 {
	best := scale[0]
	bestDist := math.Abs(v - best)
	for _, s := range scale[1:] {
		if d := math.Abs(v - s); d < bestDist {
			best, bestDist = s, d
		}
	}
	return best
}

func SnapFontSize(size float64) float64 { return closest(size, FontScale[:]) }

func SnapSpacing(spacing float64) float64 { return closest(spacing, Spacing[:]) }

func SnapCornerRadius(radius float64) float64 { return closest(radius, CornerRadii[:]) }

// SnapStrokeWidth truncates width to an integer before snapping.
func SnapStrokeWidth(width float64) float64 {
	return closest(math.Trunc(width), StrokeWidths[:])
}

// FontScaleKey names the scale step nearest to size.
func FontScaleKey(size float64) string {
	snapped := SnapFontSize(size)
	for i, s := range FontScale {
		if s == snapped {
			return fontScaleKeys[i]
		}
	}
	return "md"
}

// OnFontScale reports whether size is exactly a member of the font scale.
func OnFontScale(size float64) bool {
	return SnapFontSize(size) == size
}

// StepAbove returns the next font scale member strictly greater than size.
func StepAbove(size float64) (float64, bool) {
	for _, s := range FontScale {
		if s > size {
			return s, true
		}
	}
	return 0, false
}

// SnapLayer returns a copy of l with font size, corner radius, stroke width
// and padding snapped to their token scales wherever present. A zero font
// size or padding means "unset" and is left alone.
func SnapLayer(l layer.Layer) layer.Layer {
	c := l.Clone()
	if t := c.Text; t != nil {
		if t.FontSize > 0 {
			t.FontSize = SnapFontSize(t.FontSize)
		}
		if t.CornerRadius != nil {
			t.CornerRadius = layer.Float(SnapCornerRadius(*t.CornerRadius))
		}
		if t.Padding != nil && *t.Padding != 0 {
			t.Padding = layer.Float(SnapSpacing(*t.Padding))
		}
	}
	if s := c.Shape; s != nil {
		if s.CornerRadius != nil {
			s.CornerRadius = layer.Float(SnapCornerRadius(*s.CornerRadius))
		}
		if s.StrokeWidth != nil {
			s.StrokeWidth = layer.Float(SnapStrokeWidth(*s.StrokeWidth))
		}
	}
	return c
}

// SnapLayers applies SnapLayer to every layer.
func SnapLayers(layers []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		out[i] = SnapLayer(l)
	}
	return out
}

// ValidateColor reports whether color is one of allowed, ignoring case.
func ValidateColor(color string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(color), strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}
