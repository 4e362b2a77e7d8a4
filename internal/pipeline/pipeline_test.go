package pipeline

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fpang/ai-layout-corrector/internal/contrast"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/positioning"
	"github.com/fpang/ai-layout-corrector/internal/textopt"
)

func text(name string, t layer.Type, x, y, w, h, size float64, fill string) layer.Layer {
	return layer.Layer{Name: name, Type: t, X: x, Y: y, Width: w, Height: h, Opacity: 1,
		Text: &layer.TextProps{Text: name, FontSize: size, Fill: fill}}
}

func clean() []layer.Layer {
	cta := text("cta", layer.TypeTextbox, 400, 920, 280, 64, 16, "#D4AF37")
	cta.Text.TextColor = "#1A1A2E"
	cta.Text.CornerRadius = layer.Float(24)
	return []layer.Layer{
		{Name: "background", Type: layer.TypeRectangle, Width: 1080, Height: 1080, Opacity: 1,
			Shape: &layer.ShapeProps{Fill: "#FFFFFF"}},
		text("headline", layer.TypeText, 80, 96, 920, 120, 61, "#1A1A2E"),
		text("subtext", layer.TypeText, 80, 240, 920, 64, 20, "#4A4A4A"),
		cta,
	}
}

func messy() []layer.Layer {
	return []layer.Layer{
		{Name: "photo", Type: layer.TypeImage, Width: 1080, Height: 1080, Opacity: 1},
		text("headline", layer.TypeText, 100, 350, 880, 120, 30, "#CCCCCC"),
		text("subtext", layer.TypeText, 100, 403, 880, 77, 45, "#333333"),
	}
}

func analysis() *imageanalysis.Analysis {
	return &imageanalysis.Analysis{
		Success:               true,
		SuggestedTextPosition: "bottom",
		BusyZones:             []imageanalysis.Zone{{Position: "center", X: 200, Y: 300, Width: 600, Height: 400}},
		SafeZones:             []imageanalysis.Zone{{Position: "bottom", X: 40, Y: 780, Width: 1000, Height: 260}},
	}
}

func stageNames(stages []Stage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Name
	}
	return out
}

func TestStages_Order(t *testing.T) {
	want := []string{"grid_snap", "token_snap", "typography_hierarchy", "contrast", "busy_zone_reposition", "text_positioning"}
	if diff := cmp.Diff(want, stageNames(Stages())); diff != "" {
		t.Errorf("Stages() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, stageNames(New(Options{}).Stages())); diff != "" {
		t.Errorf("default Corrector stages mismatch (-want +got):\n%s", diff)
	}
}

func TestCorrector_OptionalStages(t *testing.T) {
	c := New(Options{Typeset: true, Elevation: true, TextOverlay: true, GradientOverlay: true, SoftGlow: 2})
	want := []string{"typeset", "grid_snap", "token_snap", "typography_hierarchy", "contrast",
		"busy_zone_reposition", "text_positioning", "elevation", "gradient_overlay", "text_overlay", "soft_glow"}
	if diff := cmp.Diff(want, stageNames(c.Stages())); diff != "" {
		t.Errorf("Stages() mismatch (-want +got):\n%s", diff)
	}
}

func TestReviewAndCorrect_CleanLayoutUnchanged(t *testing.T) {
	layers := clean()
	got := ReviewAndCorrect(layers, analysis(), 1080, 1080)
	if got.CorrectionsApplied != 0 || len(got.Corrections) != 0 {
		t.Errorf("corrections = %+v, want none", got.Corrections)
	}
	if diff := cmp.Diff(layers, got.Layers); diff != "" {
		t.Errorf("layers changed (-want +got):\n%s", diff)
	}
}

func TestReviewAndCorrect_Messy(t *testing.T) {
	layers := messy()
	got := ReviewAndCorrect(layers, analysis(), 1080, 1080)

	head, sub := got.Layers[1], got.Layers[2]
	if head.FontSize() <= sub.FontSize() {
		t.Errorf("headline %v not above subtext %v", head.FontSize(), sub.FontSize())
	}
	if head.FontSize() != 61 || sub.FontSize() != 49 {
		t.Errorf("sizes = %v, %v; want 61, 49", head.FontSize(), sub.FontSize())
	}
	if head.Text.Fill != "#000000" {
		t.Errorf("headline fill = %s, want #000000", head.Text.Fill)
	}
	if v := contrast.ValidateLayers(got.Layers, contrast.White); len(v) != 0 {
		t.Errorf("contrast violations remain: %+v", v)
	}
	if head.Y != 780 || sub.Y != 900 {
		t.Errorf("y = %v, %v; want 780, 900", head.Y, sub.Y)
	}
	if head.Rect().OverlapsVertically(sub.Rect()) {
		t.Errorf("text overlaps: %+v %+v", head.Rect(), sub.Rect())
	}

	var stages []string
	for _, c := range got.Corrections {
		if !slices.Contains(stages, c.Stage) {
			stages = append(stages, c.Stage)
		}
	}
	want := []string{"grid_snap", "token_snap", "typography_hierarchy", "contrast", "busy_zone_reposition"}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("stages with corrections mismatch (-want +got):\n%s", diff)
	}
	if got.CorrectionsApplied != len(got.Corrections) {
		t.Errorf("CorrectionsApplied = %d, len(Corrections) = %d", got.CorrectionsApplied, len(got.Corrections))
	}
	if diff := cmp.Diff(messy(), layers); diff != "" {
		t.Errorf("input mutated (-want +got):\n%s", diff)
	}
}

func TestReviewAndCorrect_StackStaysAboveCTA(t *testing.T) {
	layers := messy()
	layers[2].Height = 120
	layers = append(layers, text("cta", layer.TypeTextbox, 400, 920, 280, 96, 16, "#1A1A2E"))
	got := ReviewAndCorrect(layers, analysis(), 1080, 1080)

	head, sub, cta := got.Layers[1], got.Layers[2], got.Layers[3]
	if head.Y != 680 || sub.Y != 800 || cta.Y != 920 {
		t.Errorf("y = %v, %v, %v; want 680, 800, 920", head.Y, sub.Y, cta.Y)
	}
	for _, l := range got.Layers {
		if l.Y < 0 || l.Bottom() > 1080 {
			t.Errorf("%s spans %v..%v, off the canvas", l.Name, l.Y, l.Bottom())
		}
	}
	if !positioning.InCTABand(cta, 1080) {
		t.Errorf("cta at y %v left the CTA band", cta.Y)
	}
	stack := []layer.Layer{head, sub, cta}
	for i := range stack {
		for _, o := range stack[i+1:] {
			if stack[i].Rect().OverlapsVertically(o.Rect()) {
				t.Errorf("%s overlaps %s: %+v %+v", stack[i].Name, o.Name, stack[i].Rect(), o.Rect())
			}
		}
	}
}

func TestReviewAndCorrect_DegenerateCanvas(t *testing.T) {
	for _, size := range [][2]float64{{0, 0}, {40, 40}} {
		got := ReviewAndCorrect(clean(), nil, size[0], size[1])
		for _, l := range got.Layers {
			if l.Width < 0 || l.Height < 0 || l.Y < 0 || l.X < 0 {
				t.Errorf("%vx%v: %s = %+v", size[0], size[1], l.Name, l.Rect())
			}
		}
		for _, c := range got.Corrections {
			if c.Stage == StageTextPositioning {
				t.Errorf("%vx%v: positioning ran: %+v", size[0], size[1], c)
			}
		}
	}
}

func TestReviewAndCorrect_MostlyBusyPhoto(t *testing.T) {
	a := analysis()
	a.BusyZones = []imageanalysis.Zone{{Position: "center", X: 40, Y: 40, Width: 1000, Height: 1000}}
	got := ReviewAndCorrect(messy(), a, 1080, 1080)
	for _, c := range got.Corrections {
		if c.Stage == StageBusyZoneReposition {
			t.Errorf("busy-zone stage moved text under a full overlay: %+v", c)
		}
	}
	if got.Layers[1].Y != 352 {
		t.Errorf("headline y = %v, want grid-snapped 352", got.Layers[1].Y)
	}
}

func TestReviewAndCorrect_WithoutAnalysis(t *testing.T) {
	failed := analysis()
	failed.Success = false
	for name, a := range map[string]*imageanalysis.Analysis{"nil": nil, "failed": failed} {
		got := ReviewAndCorrect(messy(), a, 1080, 1080)
		for _, c := range got.Corrections {
			if c.Stage == StageBusyZoneReposition {
				t.Errorf("%s: busy-zone stage ran: %+v", name, c)
			}
		}
		if got.Layers[1].Y != 352 {
			t.Errorf("%s: headline y = %v, want grid-snapped 352", name, got.Layers[1].Y)
		}
	}
}

func TestReviewAndCorrect_Empty(t *testing.T) {
	got := ReviewAndCorrect(nil, nil, 1080, 1080)
	if len(got.Layers) != 0 || got.CorrectionsApplied != 0 || got.Corrections == nil {
		t.Errorf("ReviewAndCorrect(nil) = %+v", got)
	}
}

func TestCorrector_TextOverlay(t *testing.T) {
	c := New(Options{Elevation: true, TextOverlay: true})
	got := c.ReviewAndCorrect(messy(), analysis(), 1080, 1080)

	i := slices.IndexFunc(got.Layers, func(l layer.Layer) bool { return l.Name == "overlay_for_headline" })
	if i < 0 || got.Layers[i+1].Name != "headline" {
		t.Fatalf("overlay not inserted under headline: %v", got.Layers)
	}
	last := got.Corrections[len(got.Corrections)-1]
	if last.Stage != StageTextOverlay {
		t.Errorf("last correction = %+v, want a text_overlay one", last)
	}
}

func TestCorrector_FinishingOptions(t *testing.T) {
	layers := messy()
	layers = append(layers, text("cta", layer.TypeTextbox, 400, 920, 280, 64, 16, "#1A1A2E"))
	c := New(Options{GradientOverlay: true, SoftGlow: 3, SafeMargins: true})
	got := c.ReviewAndCorrect(layers, analysis(), 1080, 1080)

	g := slices.IndexFunc(got.Layers, func(l layer.Layer) bool { return strings.HasPrefix(l.Name, "gradient_overlay_") })
	if g != 1 {
		t.Errorf("gradient at index %d, want 1 directly above the photo", g)
	}
	var types []string
	for _, cr := range got.Corrections {
		if cr.Stage == StageGradientOverlay || cr.Stage == StageSoftGlow {
			types = append(types, cr.Type+":"+cr.Layer)
		}
	}
	want := []string{"gradient_overlay:" + got.Layers[g].Name, "soft_glow:cta"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("finishing corrections mismatch (-want +got):\n%s", diff)
	}
	for _, l := range got.Layers {
		if l.IsTextual() && (l.X < 108 || l.X+l.Width > 972) {
			t.Errorf("%s x = %v width = %v, want inside the safe margins", l.Name, l.X, l.Width)
		}
		if l.Name == "cta" && (l.Shadow == nil || l.Shadow.Blur != 60) {
			t.Errorf("cta shadow = %+v, want a high soft glow", l.Shadow)
		}
	}

	again := c.ReviewAndCorrect(got.Layers, analysis(), 1080, 1080)
	for _, cr := range again.Corrections {
		if cr.Stage == StageGradientOverlay {
			t.Errorf("second pass added another gradient: %+v", cr)
		}
	}
}

func TestCorrector_Typeset(t *testing.T) {
	layers := clean()
	layers[2].Text.Text = "Fresh coffee every morning in the city"
	got := New(Options{Typeset: true}).ReviewAndCorrect(layers, nil, 1080, 1080)

	if len(got.Corrections) == 0 || got.Corrections[0].Stage != StageTypeset {
		t.Fatalf("corrections = %+v, want typeset first", got.Corrections)
	}
	if !strings.ContainsRune(got.Layers[2].Text.Text, textopt.NBSP) {
		t.Errorf("text = %q, want a non-breaking space", got.Layers[2].Text.Text)
	}
}

func TestBackground(t *testing.T) {
	tests := []struct {
		name     string
		layers   []layer.Layer
		fallback string
		want     string
	}{
		{
			name: "tagged background",
			layers: []layer.Layer{
				{Name: "bg", Type: layer.TypeRectangle, Role: layer.RoleBackground, Width: 10, Height: 10,
					Shape: &layer.ShapeProps{Fill: "#1a1a2e"}},
			},
			want: "#1A1A2E",
		},
		{
			name: "canvas-sized rectangle",
			layers: []layer.Layer{
				{Name: "panel", Type: layer.TypeRectangle, Width: 1080, Height: 1080, Shape: &layer.ShapeProps{Fill: "#F5F5F5"}},
			},
			fallback: "#000000",
			want:     "#F5F5F5",
		},
		{
			name:     "brand fallback",
			layers:   []layer.Layer{{Name: "photo", Type: layer.TypeImage, Width: 1080, Height: 1080}},
			fallback: "#0F3460",
			want:     "#0F3460",
		},
		{name: "default", fallback: "not a color", want: "#FFFFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Background(tt.layers, tt.fallback); got != tt.want {
				t.Errorf("Background() = %s, want %s", got, tt.want)
			}
		})
	}
}
