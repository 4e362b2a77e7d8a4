// Package pipeline runs the self-correction pass over a proposed layout:
// an ordered list of stages, each consuming the previous stage's output and
// reporting what it changed.
package pipeline

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/contrast"
	"github.com/fpang/ai-layout-corrector/internal/elevation"
	"github.com/fpang/ai-layout-corrector/internal/grid"
	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/overlay"
	"github.com/fpang/ai-layout-corrector/internal/positioning"
	"github.com/fpang/ai-layout-corrector/internal/textopt"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
	"github.com/fpang/ai-layout-corrector/internal/typography"
)

// Stage names, in the order they run.
const (
	StageTypeset            = "typeset"
	StageGridSnap           = "grid_snap"
	StageTokenSnap          = "token_snap"
	StageTypography         = "typography_hierarchy"
	StageContrast           = "contrast"
	StageBusyZoneReposition = "busy_zone_reposition"
	StageTextPositioning    = "text_positioning"
	StageElevation          = "elevation"
	StageGradientOverlay    = "gradient_overlay"
	StageTextOverlay        = "text_overlay"
	StageSoftGlow           = "soft_glow"
)

// Correction is one entry of the audit trail: a single change a stage made
// to a single layer.
type Correction struct {
	Stage  string `json:"stage"`
	Type   string `json:"type"`
	Layer  string `json:"layer"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of ReviewAndCorrect.
type Result struct {
	Layers             []layer.Layer `json:"layers"`
	CorrectionsApplied int           `json:"corrections_applied"`
	Corrections        []Correction  `json:"corrections"`
}

// Env is what a stage may read besides the layers.
type Env struct {
	Analysis   *imageanalysis.Analysis
	Canvas     layer.Canvas
	Background string
	// Margins bound text during positioning.
	Margins tokens.Margins
}

// Stage is one step of the pass. Run must not modify its input slice.
type Stage struct {
	Name string
	Run  func(layers []layer.Layer, env Env) ([]layer.Layer, []Correction)
}

// Options switches on the supplementary stages. None run by default.
type Options struct {
	// Typeset glues widows and orphans and grows text boxes to fit their
	// wrapped text before anything is snapped.
	Typeset bool
	// Languages selects the connector words Typeset knows; empty means all.
	Languages []textopt.Language
	// Elevation gives every layer the shadow for its elevation level.
	Elevation bool
	// TextOverlay inserts a scrim under text that sits on a photo.
	TextOverlay bool
	// GradientOverlay fades the photo edge nearest the text, once per
	// layout.
	GradientOverlay bool
	// SoftGlow replaces call-to-action shadows with a soft glow of this
	// intensity, 1 to 3. Zero leaves them alone.
	SoftGlow int
	// SafeMargins positions text inside the 10% safe margins instead of
	// the narrower side margins.
	SafeMargins bool
	// Background is the brand background assumed when the layout carries
	// no background layer. Empty means white.
	Background string
}

// Corrector runs the pass with a fixed set of options. It is safe for
// concurrent use.
type Corrector struct {
	opts   Options
	stages []Stage
}

// New returns a Corrector for opts.
func New(opts Options) *Corrector {
	c := &Corrector{opts: opts}
	if opts.Typeset {
		c.stages = append(c.stages, typesetStage(textopt.New(opts.Languages...)))
	}
	c.stages = append(c.stages, Stages()...)
	if opts.Elevation {
		c.stages = append(c.stages, Stage{Name: StageElevation, Run: elevate})
	}
	if opts.GradientOverlay {
		c.stages = append(c.stages, Stage{Name: StageGradientOverlay, Run: addGradient})
	}
	if opts.TextOverlay {
		c.stages = append(c.stages, Stage{Name: StageTextOverlay, Run: addOverlays})
	}
	if opts.SoftGlow > 0 {
		c.stages = append(c.stages, softGlowStage(opts.SoftGlow))
	}
	return c
}

var defaultCorrector = New(Options{})

// Stages returns the core stages in the order they run.
func Stages() []Stage {
	return []Stage{
		{Name: StageGridSnap, Run: snapGrid},
		{Name: StageTokenSnap, Run: snapTokens},
		{Name: StageTypography, Run: fixHierarchy},
		{Name: StageContrast, Run: fixContrast},
		{Name: StageBusyZoneReposition, Run: repositionBusy},
		{Name: StageTextPositioning, Run: fixPositioning},
	}
}

// Stages returns the stages c runs, in order.
func (c *Corrector) Stages() []Stage {
	return c.stages
}

// ReviewAndCorrect runs the core stages with default options.
func ReviewAndCorrect(layers []layer.Layer, analysis *imageanalysis.Analysis, width, height float64) Result {
	return defaultCorrector.ReviewAndCorrect(layers, analysis, width, height)
}

// ReviewAndCorrect runs every stage of c over layers. The input is never
// modified. A nil or unsuccessful analysis turns the busy-zone stage into
// a no-op.
func (c *Corrector) ReviewAndCorrect(layers []layer.Layer, analysis *imageanalysis.Analysis, width, height float64) Result {
	env := Env{
		Analysis:   analysis,
		Canvas:     layer.Canvas{Width: width, Height: height},
		Background: Background(layers, c.opts.Background),
		Margins:    positioning.DefaultMargins,
	}
	if c.opts.SafeMargins {
		env.Margins = tokens.SafeMargins(width, height)
	}
	current := layers
	corrections := []Correction{}
	for _, s := range c.stages {
		next, cs := s.Run(current, env)
		for i := range cs {
			cs[i].Stage = s.Name
		}
		corrections = append(corrections, cs...)
		current = next
		if len(cs) > 0 {
			log.Debug().Str("stage", s.Name).Int("corrections", len(cs)).Msg("Stage applied")
		}
	}
	log.Info().
		Int("layers", len(current)).
		Int("correctionsApplied", len(corrections)).
		Bool("analysisUsable", analysis.Usable()).
		Msg("Self-correction complete")
	return Result{
		Layers:             current,
		CorrectionsApplied: len(corrections),
		Corrections:        corrections,
	}
}

// Background returns the template's base color: the fill of the first layer
// tagged or named as a background, else of the first rectangle at least
// 1000px on both sides, else fallback, else white.
func Background(layers []layer.Layer, fallback string) string {
	for _, l := range layers {
		if l.EffectiveRole() != layer.RoleBackground {
			continue
		}
		if c, ok := hexcolor.Parse(l.BackgroundFill()); ok {
			return hexcolor.Format(c)
		}
	}
	for _, l := range layers {
		if l.Type != layer.TypeRectangle || l.Width < 1000 || l.Height < 1000 {
			continue
		}
		if c, ok := hexcolor.Parse(l.BackgroundFill()); ok {
			return hexcolor.Format(c)
		}
	}
	if c, ok := hexcolor.Parse(fallback); ok {
		return hexcolor.Format(c)
	}
	return contrast.DefaultBackground
}

// diffLayers reports every layer of after that differs from the layer at
// the same index of before. Both slices must be the same length.
func diffLayers(before, after []layer.Layer, typ, detail string) []Correction {
	var out []Correction
	for i := range after {
		if !reflect.DeepEqual(before[i], after[i]) {
			out = append(out, Correction{Type: typ, Layer: after[i].Name, Detail: detail})
		}
	}
	return out
}

func snapGrid(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
	out := grid.SnapLayers(layers)
	return out, diffLayers(layers, out, "grid_snap", fmt.Sprintf("geometry snapped to the %dpx grid", grid.Size))
}

func snapTokens(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
	out := tokens.SnapLayers(layers)
	return out, diffLayers(layers, out, "token_snap", "sizes snapped to design tokens")
}

func fixHierarchy(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
	out, changes := typography.Fix(layers)
	cs := make([]Correction, len(changes))
	for i, ch := range changes {
		cs[i] = Correction{
			Type:   typography.IssueType,
			Layer:  ch.Layer,
			Detail: fmt.Sprintf("fontSize %g -> %g", ch.From, ch.To),
		}
	}
	return out, cs
}

func fixContrast(layers []layer.Layer, env Env) ([]layer.Layer, []Correction) {
	out, violations := contrast.FixLayers(layers, env.Background)
	cs := make([]Correction, len(violations))
	for i, v := range violations {
		cs[i] = Correction{
			Type:   contrast.ViolationType,
			Layer:  v.Layer,
			Detail: fmt.Sprintf("%s %s -> %s (ratio %.2f on %s)", v.Field, v.Foreground, v.Suggested, v.Ratio, v.Background),
		}
	}
	return out, cs
}

func repositionBusy(layers []layer.Layer, env Env) ([]layer.Layer, []Correction) {
	out, moves := imageanalysis.Adjust(layers, env.Analysis)
	cs := make([]Correction, len(moves))
	for i, m := range moves {
		cs[i] = Correction{
			Type:   "text_overlap",
			Layer:  m.Layer,
			Detail: fmt.Sprintf("moved from busy zone to %s safe zone at y=%g", m.Zone, m.To.Y),
		}
	}
	return out, cs
}

func fixPositioning(layers []layer.Layer, env Env) ([]layer.Layer, []Correction) {
	out, adj := positioning.FixWithin(layers, env.Canvas.Width, env.Canvas.Height, env.Margins)
	cs := make([]Correction, len(adj))
	for i, a := range adj {
		cs[i] = Correction{
			Type:   string(a.Kind),
			Layer:  a.Layer,
			Detail: fmt.Sprintf("(%g,%g %gx%g) -> (%g,%g %gx%g)", a.From.X, a.From.Y, a.From.Width, a.From.Height, a.To.X, a.To.Y, a.To.Width, a.To.Height),
		}
	}
	return out, cs
}

func typesetStage(o *textopt.Optimizer) Stage {
	return Stage{Name: StageTypeset, Run: func(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
		glued, changed := o.OptimizeLayers(layers)
		var cs []Correction
		for _, name := range changed {
			cs = append(cs, Correction{Type: "widow_orphan", Layer: name, Detail: "non-breaking spaces inserted"})
		}
		out, grown := textopt.FitHeights(glued)
		for _, h := range grown {
			cs = append(cs, Correction{Type: "text_height", Layer: h.Layer, Detail: fmt.Sprintf("height %g -> %g", h.From, h.To)})
		}
		return out, cs
	}}
}

func elevate(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
	out := elevation.ApplyToLayers(layers)
	return out, diffLayers(layers, out, "elevation", "shadow set for elevation level")
}

func addOverlays(layers []layer.Layer, env Env) ([]layer.Layer, []Correction) {
	out, added := overlay.AddTextOverlays(layers, env.Canvas.Width, env.Canvas.Height)
	cs := make([]Correction, len(added))
	for i, name := range added {
		cs[i] = Correction{Type: "text_overlay", Layer: name, Detail: "inserted " + overlay.Name(name)}
	}
	return out, cs
}

func addGradient(layers []layer.Layer, env Env) ([]layer.Layer, []Correction) {
	out, added := overlay.AddGradientOverlay(layers, env.Canvas.Width, env.Canvas.Height)
	if !added {
		return layers, nil
	}
	i := slices.IndexFunc(out, overlay.IsGradient)
	return out, []Correction{{Type: "gradient_overlay", Layer: out[i].Name, Detail: "inserted above the photo"}}
}

func softGlowStage(intensity int) Stage {
	return Stage{Name: StageSoftGlow, Run: func(layers []layer.Layer, _ Env) ([]layer.Layer, []Correction) {
		out := elevation.ApplySoftGlowToCTAs(layers, intensity)
		return out, diffLayers(layers, out, "soft_glow", fmt.Sprintf("soft glow at intensity %d", intensity))
	}}
}
