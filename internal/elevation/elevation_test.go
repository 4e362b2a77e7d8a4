package elevation

import (
	"encoding/json"
	"testing"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

func TestShadowFor(t *testing.T) {
	if s := ShadowFor(0); s.Enabled {
		t.Errorf("ShadowFor(0) = %+v, want disabled", s)
	}

	want := map[int]layer.Shadow{
		1: {Enabled: true, Color: "#000000", Blur: 2, OffsetY: 1, Opacity: 0.08},
		3: {Enabled: true, Color: "#000000", Blur: 8, OffsetY: 4, Opacity: 0.12},
		5: {Enabled: true, Color: "#000000", Blur: 24, OffsetY: 12, Opacity: 0.16},
	}
	for level, w := range want {
		if got := ShadowFor(level); got != w {
			t.Errorf("ShadowFor(%d) = %+v, want %+v", level, got, w)
		}
	}

	if ShadowFor(9) != ShadowFor(5) || ShadowFor(-2) != ShadowFor(0) {
		t.Error("levels outside 0..5 are not clamped")
	}
}

func TestShadowFor_Monotonic(t *testing.T) {
	for level := 2; level <= MaxLevel; level++ {
		prev, cur := ShadowFor(level-1), ShadowFor(level)
		if cur.Blur <= prev.Blur || cur.OffsetY <= prev.OffsetY || cur.Opacity <= prev.Opacity {
			t.Errorf("level %d shadow %+v not stronger than level %d %+v", level, cur, level-1, prev)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		typ  layer.Type
		name string
		want int
	}{
		{layer.TypeImage, "hero_cta_photo", 0},
		{layer.TypeRectangle, "background", 0},
		{layer.TypeTextbox, "label", 3},
		{layer.TypeRectangle, "cta_button", 3},
		{layer.TypeRectangle, "info_card", 2},
		{layer.TypeLine, "accent_line", 1},
		{layer.TypeText, "headline", 0},
		{layer.TypeRectangle, "overlay_for_cta", 0},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.typ, tt.name); got != tt.want {
			t.Errorf("LevelFor(%q, %q) = %d, want %d", tt.typ, tt.name, got, tt.want)
		}
	}
}

func TestApplyToLayer_MergesProperties(t *testing.T) {
	in := layer.Layer{
		Name: "cta", Type: layer.TypeTextbox,
		Text:  &layer.TextProps{Text: "Shop", Fill: "#D4AF37", TextColor: "#1A1A2E"},
		Extra: map[string]json.RawMessage{"fontStyle": json.RawMessage(`"italic"`)},
	}
	got := ApplyToLayer(in)
	if !got.HasShadow() || got.Shadow.Blur != 8 {
		t.Errorf("shadow = %+v, want level 3", got.Shadow)
	}
	if got.Text.Fill != "#D4AF37" || got.Extra["fontStyle"] == nil {
		t.Error("existing properties were discarded")
	}
	if in.Shadow != nil {
		t.Error("ApplyToLayer mutated its input")
	}
}

func TestApplyToLayers_LevelZeroAddsNothing(t *testing.T) {
	layers := []layer.Layer{
		{Name: "photo", Type: layer.TypeImage},
		{Name: "headline", Type: layer.TypeText, Text: &layer.TextProps{}},
	}
	for i, l := range ApplyToLayers(layers) {
		if l.Shadow != nil {
			t.Errorf("layer %d got shadow %+v, want none", i, l.Shadow)
		}
	}
}

func TestCSSBoxShadow(t *testing.T) {
	if got := CSSBoxShadow(0); got != "none" {
		t.Errorf("CSSBoxShadow(0) = %q, want none", got)
	}
	want := "0 4px 8px rgba(0, 0, 0, 0.12), 0 4px 10px rgba(0, 0, 0, 0.08)"
	if got := CSSBoxShadow(3); got != want {
		t.Errorf("CSSBoxShadow(3) = %q, want %q", got, want)
	}
}

func TestFloatingEffect(t *testing.T) {
	f := FloatingEffect(5)
	if f.Hover != ShadowFor(5) || f.Pressed != ShadowFor(4) {
		t.Errorf("FloatingEffect(5) = %+v", f)
	}
	f = FloatingEffect(0)
	if f.Normal.Enabled || f.Pressed.Enabled || !f.Hover.Enabled {
		t.Errorf("FloatingEffect(0) = %+v", f)
	}
}

func TestApplySoftGlowToCTAs(t *testing.T) {
	layers := []layer.Layer{
		{Name: "headline", Type: layer.TypeText, Text: &layer.TextProps{}},
		{Name: "cta", Type: layer.TypeTextbox, Text: &layer.TextProps{}},
	}
	got := ApplySoftGlowToCTAs(layers, 3)
	if got[0].Shadow != nil {
		t.Error("glow applied to headline")
	}
	if got[1].Shadow == nil || got[1].Shadow.Blur != 60 || got[1].Shadow.OffsetY != 0 {
		t.Errorf("cta glow = %+v, want blur 60 no offset", got[1].Shadow)
	}
	if SoftGlow(0) != SoftGlow(1) {
		t.Error("intensity below 1 not clamped")
	}
}
