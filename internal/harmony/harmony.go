// Package harmony analyzes palettes on the HSL hue wheel: harmony detection,
// accent suggestion and palette generation.
package harmony

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
)

// Scheme is a named hue-wheel relationship.
type Scheme string

const (
	Complementary      Scheme = "complementary"
	Analogous          Scheme = "analogous"
	Triadic            Scheme = "triadic"
	SplitComplementary Scheme = "split_complementary"
	Square             Scheme = "square"

	Single        Scheme = "single"
	Monochromatic Scheme = "monochromatic"
	Unknown       Scheme = "unknown"
	None          Scheme = "none"
)

// schemes is checked in this order; the first match wins.
var schemes = []Scheme{Complementary, Analogous, Triadic, SplitComplementary, Square}

var angles = map[Scheme]float64{
	Complementary:      180,
	Analogous:          30,
	Triadic:            120,
	SplitComplementary: 150,
	Square:             90,
}

const (
	// Tolerance is the allowed deviation in degrees from a scheme angle.
	Tolerance = 15
	// VibrantSaturation is the minimum saturation of a vibrant color.
	VibrantSaturation = 0.3
	// PassingScore is the palette score at or above which a palette is valid.
	PassingScore = 70
)

// Angle returns the hue rotation for s, defaulting to complementary.
func Angle(s Scheme) float64 {
	if a, ok := angles[s]; ok {
		return a
	}
	return angles[Complementary]
}

// HSL is a color in hue (degrees, [0,360)), saturation and lightness ([0,1]).
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// HexToHSL converts a hex color. Unparseable input converts as black.
func HexToHSL(hex string) HSL {
	h, s, l := hexcolor.MustParse(hex).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSL{H: math.Mod(h+360, 360), S: s, L: l}
}

// HSLToHex converts back to upper-case "#RRGGBB".
func HSLToHex(c HSL) string {
	return hexcolor.Format(colorful.Hsl(math.Mod(c.H+360, 360), c.S, c.L))
}

// hueDiff returns the shortest angular distance between two hues.
func hueDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SuggestAccent rotates base by the scheme angle, keeping saturation at
// least 0.5 and shifting lightness 0.2 away from the base.
func SuggestAccent(base string, scheme Scheme) string {
	c := HexToHSL(base)
	l := math.Min(0.7, c.L+0.2)
	if c.L > 0.5 {
		l = math.Max(0.3, c.L-0.2)
	}
	return HSLToHex(HSL{
		H: math.Mod(c.H+Angle(scheme), 360),
		S: math.Max(c.S, 0.5),
		L: l,
	})
}

// GeneratePalette returns count colors: base unchanged, then base rotated
// by the scheme angle once per step with saturation and lightness kept.
func GeneratePalette(base string, scheme Scheme, count int) []string {
	if count < 1 {
		count = 1
	}
	c := HexToHSL(base)
	angle := Angle(scheme)
	palette := []string{base}
	for i := 1; i < count; i++ {
		palette = append(palette, HSLToHex(HSL{
			H: math.Mod(c.H+angle*float64(i), 360),
			S: c.S,
			L: c.L,
		}))
	}
	return palette
}

// Relation classifies how two colors sit on the hue wheel.
type Relation struct {
	Harmonious bool    `json:"harmonious"`
	Type       Scheme  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Relate reports the first scheme whose angle the hue difference of a and b
// falls within. Analogous covers any difference up to 30 degrees.
func Relate(a, b string) Relation {
	d := hueDiff(HexToHSL(a).H, HexToHSL(b).H)
	for _, s := range schemes {
		if fits(d, s) {
			return Relation{Harmonious: true, Type: s, Confidence: match(d, s)}
		}
	}
	return Relation{Type: None}
}

func fits(diff float64, s Scheme) bool {
	if s == Analogous {
		return diff <= angles[Analogous]
	}
	return math.Abs(diff-angles[s]) <= Tolerance
}

// match scores how closely a hue difference fits a scheme, in [0,1].
func match(diff float64, s Scheme) float64 {
	if !fits(diff, s) {
		return 0
	}
	if s == Analogous {
		return 1 - diff/angles[Analogous]
	}
	return 1 - math.Abs(diff-angles[s])/Tolerance
}

// Report is the outcome of ValidatePalette.
type Report struct {
	Valid             bool     `json:"valid"`
	Score             int      `json:"score"`
	HarmonyType       Scheme   `json:"harmony_type"`
	HarmonyConfidence float64  `json:"harmony_confidence"`
	VibrancyRatio     float64  `json:"vibrancy_ratio"`
	Issues            []string `json:"issues"`
	Suggestions       []string `json:"suggestions"`
}

// ValidatePalette scores a palette for harmony, vibrancy balance,
// saturation overload and lightness variety.
func ValidatePalette(colors []string) Report {
	if len(colors) < 2 {
		return Report{Valid: true, Score: 100, HarmonyType: Single, HarmonyConfidence: 1, Issues: []string{}, Suggestions: []string{}}
	}

	hsls := make([]HSL, len(colors))
	for i, c := range colors {
		hsls[i] = HexToHSL(c)
	}

	score := 100
	issues := []string{}
	harmonyType, confidence := detect(hsls)

	vibrant := 0
	saturated := 0
	minL, maxL := 1.0, 0.0
	for _, c := range hsls {
		if c.S >= VibrantSaturation && c.L > 0.2 && c.L < 0.8 {
			vibrant++
		}
		if c.S > 0.6 {
			saturated++
		}
		minL, maxL = math.Min(minL, c.L), math.Max(maxL, c.L)
	}
	ratio := float64(vibrant) / float64(len(hsls))
	switch {
	case ratio < 0.2:
		issues = append(issues, "color:vibrancy - Palette lacks vibrant colors. Add a saturated accent")
		score -= 15
	case ratio > 0.5:
		issues = append(issues, "color:vibrancy - Too many vibrant colors. Add neutral tones for balance")
		score -= 15
	}
	if harmonyType == Unknown && len(colors) > 2 {
		issues = append(issues, "color:harmony - Colors don't follow any recognized harmony pattern")
		score -= 20
	}
	if saturated > 2 {
		issues = append(issues, fmt.Sprintf("color:saturation - Too many highly saturated colors (%d). Limit to 1-2 for balance", saturated))
		score -= 10
	}
	if maxL-minL < 0.3 && len(colors) > 2 {
		issues = append(issues, "color:lightness - Insufficient lightness variety. Add light/dark contrast")
		score -= 10
	}
	score = max(0, score)

	r := Report{
		Valid:             score >= PassingScore,
		Score:             score,
		HarmonyType:       harmonyType,
		HarmonyConfidence: math.Round(confidence*100) / 100,
		VibrancyRatio:     math.Round(ratio*100) / 100,
		Issues:            issues,
		Suggestions:       suggestions(issues, colors[0]),
	}
	log.Debug().
		Int("colors", len(colors)).
		Str("harmony", string(r.HarmonyType)).
		Int("score", r.Score).
		Int("issues", len(issues)).
		Msg("Palette validated")
	return r
}

// detect finds the scheme best matching every pair of chromatic hues.
// Colors with saturation below 0.1 carry no meaningful hue and are skipped.
func detect(hsls []HSL) (Scheme, float64) {
	var hues []float64
	for _, c := range hsls {
		if c.S >= 0.1 {
			hues = append(hues, c.H)
		}
	}
	if len(hues) < 2 {
		return Monochromatic, 1
	}

	best, bestScore := Unknown, 0.0
	for _, s := range schemes {
		total, pairs := 0.0, 0
		for i := range hues {
			for j := i + 1; j < len(hues); j++ {
				total += match(hueDiff(hues[i], hues[j]), s)
				pairs++
			}
		}
		if m := total / float64(pairs); m > bestScore {
			best, bestScore = s, m
		}
	}
	return best, bestScore
}

func suggestions(issues []string, first string) []string {
	out := []string{}
	add := func(s string) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	for _, issue := range issues {
		switch {
		case strings.HasPrefix(issue, "color:harmony"):
			add(fmt.Sprintf("Consider using %s as an accent color for harmony", SuggestAccent(first, Complementary)))
		case strings.HasPrefix(issue, "color:vibrancy"):
			c := HexToHSL(first)
			add(fmt.Sprintf("Add a vibrant accent like %s", HSLToHex(HSL{H: c.H, S: math.Min(1, c.S+0.3), L: 0.5})))
		case strings.HasPrefix(issue, "color:saturation"):
			add("Replace some saturated colors with neutrals (#F5F5F5, #333333)")
		case strings.HasPrefix(issue, "color:lightness"):
			add("Add contrast with a very light (#F8F8F8) or very dark (#1A1A1A) color")
		}
	}
	return out
}
