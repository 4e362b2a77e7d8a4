// Package critic scores a finished layout on five design dimensions,
// independently of how it was produced, and can apply the automatic remedy
// for each issue it raises.
package critic

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/contrast"
	"github.com/fpang/ai-layout-corrector/internal/harmony"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
	"github.com/fpang/ai-layout-corrector/internal/positioning"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
	"github.com/fpang/ai-layout-corrector/internal/typography"
)

const (
	// PassingScore is the total at or above which a layout is approved.
	PassingScore = 75
	// MinHeadlineSize is the smallest headline that reads as a headline.
	MinHeadlineSize = 39
	// MaxCoverage is the largest share of the canvas content may cover.
	MaxCoverage = 0.7
	// FullBleed is the share of both canvas sides a photo must span to be
	// treated as full-bleed.
	FullBleed = 0.9
)

// Dimension is one scored aspect of a layout.
type Dimension string

const (
	Typography  Dimension = "typography_hierarchy"
	Composition Dimension = "composition_balance"
	Color       Dimension = "color_harmony"
	Depth       Dimension = "depth_and_shadow"
	Integration Dimension = "image_text_integration"
)

// Dimensions lists every dimension in scoring order. All weigh the same.
var Dimensions = []Dimension{Typography, Composition, Color, Depth, Integration}

// prefix is the short dimension name issues are rendered with.
var prefix = map[Dimension]string{
	Typography:  "typography",
	Composition: "composition",
	Color:       "color",
	Depth:       "depth",
	Integration: "integration",
}

// Verdict is the critic's accept or reject decision.
type Verdict string

const (
	Approved Verdict = "APPROVED"
	Rejected Verdict = "REJECTED"
)

// Issue is one finding. Subject names the layer concerned, or the aspect
// of the layout when no single layer is at fault.
type Issue struct {
	Code      Code           `json:"code"`
	Dimension Dimension      `json:"dimension"`
	Subject   string         `json:"subject"`
	Message   string         `json:"message"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// String renders the issue as "dimension:subject - message".
func (i Issue) String() string {
	return fmt.Sprintf("%s:%s - %s", prefix[i.Dimension], i.Subject, i.Message)
}

// Report is the outcome of Critique. IssueMessages carries Issues
// rendered with Issue.String, in the same order. VisualWeight is reported
// for reference and does not count towards any score.
type Report struct {
	Passed        bool                  `json:"passed"`
	TotalScore    float64               `json:"total_score"`
	Scores        map[Dimension]float64 `json:"scores"`
	Issues        []Issue               `json:"issues"`
	IssueMessages []string              `json:"issue_messages"`
	Suggestions   []string              `json:"suggestions"`
	Verdict       Verdict               `json:"verdict"`
	VisualWeight  typography.Weight     `json:"visual_weight"`
}

// Messages returns every issue rendered with Issue.String.
func (c Report) Messages() []string {
	out := make([]string, len(c.Issues))
	for i, is := range c.Issues {
		out[i] = is.String()
	}
	return out
}

// Has reports whether c raised an issue with code.
func (c Report) Has(code Code) bool {
	return slices.ContainsFunc(c.Issues, func(i Issue) bool { return i.Code == code })
}

// scorer accumulates one dimension's score and issues.
type scorer struct {
	dim    Dimension
	score  float64
	issues []Issue
}

func newScorer(d Dimension) *scorer {
	return &scorer{dim: d, score: 100}
}

func (s *scorer) deduct(points float64, code Code, subject, msg string, payload map[string]any) {
	s.score -= points
	s.issues = append(s.issues, Issue{Code: code, Dimension: s.dim, Subject: subject, Message: msg, Payload: payload})
}

func (s *scorer) result() float64 {
	return math.Round(max(0, s.score)*10) / 10
}

// Critique scores layers on a width x height canvas. A nil or unsuccessful
// analysis skips the focal-point check.
func Critique(layers []layer.Layer, analysis *imageanalysis.Analysis, width, height float64) Report {
	scorers := []*scorer{
		typographyScore(layers),
		compositionScore(layers, width, height),
		colorScore(layers),
		depthScore(layers),
		integrationScore(layers, analysis, width, height),
	}

	c := Report{Scores: make(map[Dimension]float64, len(scorers)), Issues: []Issue{}}
	sum := 0.0
	for _, s := range scorers {
		score := s.result()
		c.Scores[s.dim] = score
		sum += score
		c.Issues = append(c.Issues, s.issues...)
	}
	c.TotalScore = math.Round(sum/float64(len(scorers))*10) / 10
	c.Passed = c.TotalScore >= PassingScore
	c.Verdict = Rejected
	if c.Passed {
		c.Verdict = Approved
	}
	c.Suggestions = suggestionsFor(c.Issues)
	c.IssueMessages = c.Messages()
	c.VisualWeight = typography.VisualWeight(layers)

	log.Info().
		Bool("passed", c.Passed).
		Float64("totalScore", c.TotalScore).
		Interface("scores", c.Scores).
		Int("issues", len(c.Issues)).
		Msg("Visual critique complete")
	return c
}

func visibleText(layers []layer.Layer) []layer.Layer {
	var out []layer.Layer
	for _, l := range layers {
		if l.IsTextual() && !l.Hidden {
			out = append(out, l)
		}
	}
	return out
}

func typographyScore(layers []layer.Layer) *scorer {
	s := newScorer(Typography)
	text := visibleText(layers)
	if len(text) == 0 {
		s.score = 50
		s.issues = append(s.issues, Issue{Code: NoText, Dimension: Typography, Subject: "text", Message: "No text layers found"})
		return s
	}

	r := typography.Locate(layers)
	if r.Headline >= 0 {
		h := layers[r.Headline]
		if size := h.FontSize(); size < MinHeadlineSize {
			s.deduct(20, HeadlineTooSmall, h.Name,
				fmt.Sprintf("Headline too small (%gpx). Use %dpx or more for impact", size, MinHeadlineSize),
				map[string]any{"layer": h.Name, "font_size": size, "minimum": MinHeadlineSize})
		}
		if r.Subtext >= 0 {
			sub := layers[r.Subtext]
			if h.FontSize() <= sub.FontSize() {
				s.deduct(25, HierarchyInverted, h.Name,
					fmt.Sprintf("Headline (%gpx) is not larger than subtext (%gpx)", h.FontSize(), sub.FontSize()),
					map[string]any{"headline": h.Name, "subtext": sub.Name, "suggested": math.Trunc(sub.FontSize() * typography.HeadlineToSubtextRatio)})
			}
		}
	}

	sizes := make([]float64, 0, len(text))
	for _, l := range text {
		size := l.FontSize()
		if size <= 0 {
			continue
		}
		sizes = append(sizes, size)
		if !tokens.OnFontScale(size) {
			s.deduct(10, OffScaleFont, l.Name,
				fmt.Sprintf("Font size %gpx is off the modular scale", size),
				map[string]any{"layer": l.Name, "font_size": size, "nearest": tokens.SnapFontSize(size)})
		}
	}
	slices.Sort(sizes)
	if len(text) > 1 && len(slices.Compact(sizes)) < 2 {
		s.deduct(10, NoSizeVariety, "variety", "All text layers have the same size. Use hierarchy for visual interest", nil)
	}
	return s
}

// aligned reports whether a text block starting at x sits on a thirds line,
// is centered, or hugs a side.
func aligned(l layer.Layer, width float64) bool {
	third := width / 3
	return math.Abs(l.X-third) < 50 ||
		math.Abs(l.X-2*third) < 50 ||
		math.Abs(l.X+l.Width/2-width/2) < 50 ||
		l.X < 100 ||
		l.X+l.Width > width-100
}

func compositionScore(layers []layer.Layer, width, height float64) *scorer {
	s := newScorer(Composition)
	for _, l := range visibleText(layers) {
		if !aligned(l, width) && l.X > 120 && l.X < width-320 {
			s.deduct(10, Misaligned, l.Name,
				fmt.Sprintf("Text not aligned with composition grid (x=%g)", l.X),
				map[string]any{"layer": l.Name, "x": l.X})
		}
		if l.X < positioning.Margin || l.X+l.Width > width-positioning.Margin {
			s.deduct(10, MarginViolation, l.Name,
				fmt.Sprintf("Text closer than %dpx to the canvas edge", positioning.Margin),
				map[string]any{"layer": l.Name, "x": l.X, "right": l.X + l.Width})
		}
	}

	canvas := width * height
	if canvas <= 0 {
		return s
	}
	covered := 0.0
	for _, l := range layers {
		if l.Hidden || l.Type == layer.TypeImage || l.Type == layer.TypeGroup || l.IsOverlay() ||
			l.EffectiveRole() == layer.RoleBackground || l.NameHas("overlay") ||
			(l.Type.IsShape() && l.Opacity > 0 && l.Opacity < 1) {
			continue
		}
		covered += l.Rect().Area()
	}
	if ratio := covered / canvas; ratio > MaxCoverage {
		s.deduct(25, Crowded, "crowded",
			fmt.Sprintf("Design too crowded (%.0f%% coverage). Leave breathing room", ratio*100),
			map[string]any{"coverage": math.Round(ratio*100) / 100})
	}
	return s
}

// paletteColors returns the distinct chromatic colors the layout paints:
// text colors plus rectangle and textbox fills, without near-whites,
// near-blacks and grays.
func paletteColors(layers []layer.Layer) []string {
	var colors []string
	add := func(c string) {
		if c == "" || strings.EqualFold(c, "transparent") || slices.Contains(colors, strings.ToUpper(c)) {
			return
		}
		hsl := harmony.HexToHSL(c)
		if hsl.S > 0.1 && hsl.L > 0.1 && hsl.L < 0.9 {
			colors = append(colors, strings.ToUpper(c))
		}
	}
	for _, l := range layers {
		if l.Hidden {
			continue
		}
		if l.IsTextual() {
			add(l.GlyphColor())
		}
		if l.Type == layer.TypeRectangle || l.Type == layer.TypeTextbox {
			add(l.BackgroundFill())
		}
	}
	return colors
}

func colorScore(layers []layer.Layer) *scorer {
	s := newScorer(Color)
	for _, v := range contrast.ValidateLayers(layers, pipeline.Background(layers, "")) {
		s.deduct(20, ContrastViolation, v.Layer,
			fmt.Sprintf("Text %s %s on %s has contrast %.2f, below %.1f", v.Field, v.Foreground, v.Background, v.Ratio, v.Required),
			map[string]any{"layer": v.Layer, "ratio": v.Ratio, "suggested": v.Suggested})
	}

	if colors := paletteColors(layers); len(colors) >= 2 {
		if r := harmony.ValidatePalette(colors); !r.Valid {
			s.deduct(float64(100-r.Score)*0.3, PaletteDiscord, "palette",
				fmt.Sprintf("Palette harmony score %d: %s", r.Score, strings.Join(r.Issues, "; ")),
				map[string]any{"colors": colors, "score": r.Score, "suggestions": r.Suggestions})
		}
	}

	accent := slices.ContainsFunc(layers, func(l layer.Layer) bool {
		return !l.Hidden && (l.IsCTA() || l.EffectiveRole() == layer.RoleAccent || l.NameHas("accent", "cta"))
	})
	if !accent {
		s.deduct(10, NoAccent, "accent", "No accent color element found. Add visual pop with an accent", nil)
	}
	return s
}

func depthScore(layers []layer.Layer) *scorer {
	s := newScorer(Depth)
	anyShadow := false
	for _, l := range layers {
		if l.Hidden {
			continue
		}
		anyShadow = anyShadow || l.HasShadow()
		if l.IsCTA() && !l.HasShadow() {
			s.deduct(15, CTALacksElevation, l.Name, "CTA button lacks elevation. Add shadow for floating effect",
				map[string]any{"layer": l.Name})
		}
	}
	if !anyShadow {
		s.deduct(10, FlatDesign, "flat", "No shadows used. Add subtle elevation", nil)
	}
	return s
}

// hasScrim reports whether anything between a photo and its text dims it.
func hasScrim(layers []layer.Layer) bool {
	return slices.ContainsFunc(layers, func(l layer.Layer) bool {
		if l.Hidden {
			return false
		}
		return l.IsOverlay() || l.NameHas("overlay", "gradient") ||
			(l.Type == layer.TypeRectangle && l.Opacity > 0 && l.Opacity < 1)
	})
}

func integrationScore(layers []layer.Layer, a *imageanalysis.Analysis, width, height float64) *scorer {
	s := newScorer(Integration)
	text := visibleText(layers)

	fullBleed := slices.ContainsFunc(layers, func(l layer.Layer) bool {
		return l.Type == layer.TypeImage && !l.Hidden && l.Width >= width*FullBleed && l.Height >= height*FullBleed
	})
	if fullBleed && len(text) > 0 && !hasScrim(layers) {
		s.deduct(20, MissingOverlay, "overlay", "Full-bleed image with text needs an overlay for readability", nil)
	}

	if !a.Usable() || len(a.BusyZones) == 0 {
		if len(s.issues) == 0 {
			s.score = 80
			s.issues = append(s.issues, Issue{Code: AnalysisUnavailable, Dimension: Integration, Subject: "analysis",
				Message: "No image analysis available for focal point check"})
		}
		return s
	}

	for _, l := range text {
		for _, z := range a.BusyZones {
			if l.Rect().Intersects(z.Rect()) {
				s.deduct(30, FocalOverlap, l.Name,
					fmt.Sprintf("Text overlaps focal point at (%g, %g)", z.X, z.Y),
					map[string]any{"layer": l.Name, "zone": z})
			}
		}
	}
	return s
}
