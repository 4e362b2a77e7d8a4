package tokens

import (
	"math"
	"strings"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// LineHeightContext selects a line-height multiplier.
type LineHeightContext string

const (
	HeadlineTight  LineHeightContext = "headline_tight"
	HeadlineNormal LineHeightContext = "headline_normal"
	BodyTight      LineHeightContext = "body_tight"
	BodyNormal     LineHeightContext = "body_normal"
	BodyLoose      LineHeightContext = "body_loose"
)

var lineHeightMultipliers = map[LineHeightContext]float64{
	HeadlineTight:  1.1,
	HeadlineNormal: 1.2,
	BodyTight:      1.4,
	BodyNormal:     1.5,
	BodyLoose:      1.75,
}

// Letter spacing in em per font scale step: open at small sizes, tight at
// display sizes.
var tracking = map[string]float64{
	"xs":  0.05,
	"sm":  0.02,
	"md":  0,
	"lg":  -0.01,
	"xl":  -0.02,
	"2xl": -0.02,
	"3xl": -0.015,
	"4xl": -0.01,
	"5xl": -0.005,
	"6xl": 0,
}

// LineHeight returns a unitless line height for fontSize whose pixel height
// lands on the baseline grid. Unknown contexts use BodyNormal.
func LineHeight(fontSize float64, ctx LineHeightContext) float64 {
	mult, ok := lineHeightMultipliers[ctx]
	if !ok {
		mult = lineHeightMultipliers[BodyNormal]
	}
	if fontSize <= 0 {
		return mult
	}
	px := math.Ceil(fontSize*mult/Baseline) * Baseline
	return round(px/fontSize, 3)
}

// Tracking returns the letter spacing in em for fontSize.
func Tracking(fontSize float64) float64 {
	return tracking[FontScaleKey(fontSize)]
}

// LineHeightContextFor picks the rhythm context from a layer's name and type.
func LineHeightContextFor(name string, t layer.Type) LineHeightContext {
	n := strings.ToLower(name)
	switch {
	case t == layer.TypeTextbox || strings.Contains(n, "cta") || strings.Contains(n, "button"):
		return HeadlineTight
	case strings.Contains(n, "subtext") || strings.Contains(n, "subtitle") || strings.Contains(n, "sub_"):
		return BodyTight
	case strings.Contains(n, "headline") || strings.Contains(n, "title"):
		return HeadlineNormal
	}
	return BodyNormal
}

// ApplyVerticalRhythm returns a copy of a text layer with line height and
// letter spacing derived from its size. Values already present are kept.
func ApplyVerticalRhythm(l layer.Layer) layer.Layer {
	if !l.IsTextual() || l.Text == nil || l.Text.FontSize <= 0 {
		return l
	}
	c := l.Clone()
	fs := c.Text.FontSize
	if c.Text.LineHeight == nil {
		c.Text.LineHeight = layer.Float(LineHeight(fs, LineHeightContextFor(c.Name, c.Type)))
	}
	if c.Text.LetterSpacing == nil {
		c.Text.LetterSpacing = layer.Float(round(Tracking(fs)*fs, 1))
	}
	return c
}

// ApplyVerticalRhythmToLayers applies ApplyVerticalRhythm to every layer.
func ApplyVerticalRhythmToLayers(layers []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		out[i] = ApplyVerticalRhythm(l)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
