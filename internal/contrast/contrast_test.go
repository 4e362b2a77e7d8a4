package contrast

import (
	"math"
	"testing"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

func TestRatio(t *testing.T) {
	bw := Ratio("#000000", "#FFFFFF")
	if bw <= 20 || bw >= 22 {
		t.Errorf("Ratio(black, white) = %v, want in (20, 22)", bw)
	}
	if got := Ratio("#D4AF37", "#D4AF37"); got != 1 {
		t.Errorf("Ratio(c, c) = %v, want 1", got)
	}
	if got := Ratio("#CCCCCC", "#FFFFFF"); got >= AANormal {
		t.Errorf("Ratio(#CCCCCC, #FFFFFF) = %v, want < %v", got, AANormal)
	}
	if got := Ratio("#FFF", "#FFFFFF"); math.Abs(got-1) > 1e-9 {
		t.Errorf("Ratio with short hex = %v, want 1", got)
	}
}

func TestRatio_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"#1E3A5F", "#FFFFFF"},
		{"#D4AF37", "#1A1A2E"},
		{"#FF0000", "#00FF00"},
		{"#8BA3BE", "#0F2544"},
	}
	for _, p := range pairs {
		a, b := Ratio(p[0], p[1]), Ratio(p[1], p[0])
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("Ratio(%s, %s) = %v, reversed = %v", p[0], p[1], a, b)
		}
	}
}

func TestValidate(t *testing.T) {
	r := Validate("#767676", "#FFFFFF")
	if !r.AANormal || !r.AALarge || r.AAANormal {
		t.Errorf("Validate(#767676, white) = %+v, want AA pass, AAA fail", r)
	}
	r = Validate("#888888", "#FFFFFF")
	if r.AANormal || !r.AALarge {
		t.Errorf("Validate(#888888, white) = %+v, want AA-large only", r)
	}
}

func TestSuggestTextColor(t *testing.T) {
	tests := []struct {
		name     string
		bg, pref string
		want     string
	}{
		{"preferred passes", "#1A1A2E", "#D4AF37", "#D4AF37"},
		{"preferred fails on light", "#FFFFFF", "#CCCCCC", Black},
		{"dark background", "#1E3A5F", "", White},
		{"light background", "#F5F5F5", "", Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestTextColor(tt.bg, tt.pref); got != tt.want {
				t.Errorf("SuggestTextColor(%s, %s) = %s, want %s", tt.bg, tt.pref, got, tt.want)
			}
		})
	}
}

func TestValidateAndFixLayers(t *testing.T) {
	layers := []layer.Layer{
		{Name: "caption", Type: layer.TypeText, X: 100, Y: 100, Width: 400, Height: 40,
			Text: &layer.TextProps{Text: "Hello", Fill: "#CCCCCC"}},
	}

	violations := ValidateLayers(layers, "#FFFFFF")
	if len(violations) != 1 {
		t.Fatalf("ValidateLayers() = %d violations, want 1", len(violations))
	}
	if violations[0].Type != "contrast_violation" || violations[0].Field != "fill" {
		t.Errorf("violation = %+v", violations[0])
	}

	fixed, _ := FixLayers(layers, "#FFFFFF")
	if got := fixed[0].Text.Fill; got != "#000000" {
		t.Errorf("fixed fill = %s, want #000000", got)
	}
	if layers[0].Text.Fill != "#CCCCCC" {
		t.Error("FixLayers mutated its input")
	}
}

func TestValidateLayers_TextboxUsesOwnFill(t *testing.T) {
	layers := []layer.Layer{
		{Name: "cta", Type: layer.TypeTextbox, Width: 200, Height: 60,
			Text: &layer.TextProps{Text: "Go", Fill: "#D4AF37", TextColor: "#FFFFFF"}},
		{Name: "cta2", Type: layer.TypeTextbox, Width: 200, Height: 60,
			Text: &layer.TextProps{Text: "Go", Fill: "#D4AF37", TextColor: "#1A1A2E"}},
		{Name: "ghost", Type: layer.TypeTextbox, Width: 200, Height: 60,
			Text: &layer.TextProps{Text: "Go", Fill: "transparent", TextColor: "#FFFFFF"}},
	}

	v := ValidateLayers(layers, "#FFFFFF")
	if len(v) != 1 || v[0].Layer != "cta" || v[0].Field != "textColor" {
		t.Fatalf("ValidateLayers() = %+v, want one textColor violation on cta", v)
	}

	fixed, _ := FixLayers(layers, "#FFFFFF")
	if fixed[0].Text.Fill != "#D4AF37" {
		t.Error("FixLayers changed the textbox fill")
	}
	if !HasEnoughContrast(fixed[0].Text.TextColor, "#D4AF37", AANormal) {
		t.Errorf("fixed textColor %s still fails", fixed[0].Text.TextColor)
	}
}

func TestBackgroundFor(t *testing.T) {
	layers := []layer.Layer{
		{Name: "background", Type: layer.TypeRectangle, Width: 1080, Height: 1080, Opacity: 1,
			Shape: &layer.ShapeProps{Fill: "#1A1A2E"}},
		{Name: "band", Type: layer.TypeRectangle, Y: 800, Width: 1080, Height: 280, Opacity: 1,
			Shape: &layer.ShapeProps{Fill: "#FFFFFF"}},
		{Name: "headline", Type: layer.TypeText, X: 80, Y: 100, Width: 900, Height: 120,
			Text: &layer.TextProps{Fill: "#FFFFFF"}},
		{Name: "footer", Type: layer.TypeText, X: 80, Y: 900, Width: 900, Height: 40,
			Text: &layer.TextProps{Fill: "#FFFFFF"}},
	}

	if got := BackgroundFor(layers, 2, DefaultBackground); got != "#1A1A2E" {
		t.Errorf("BackgroundFor(headline) = %s, want #1A1A2E", got)
	}
	if got := BackgroundFor(layers, 3, DefaultBackground); got != "#FFFFFF" {
		t.Errorf("BackgroundFor(footer) = %s, want #FFFFFF", got)
	}

	v := ValidateLayers(layers, DefaultBackground)
	if len(v) != 1 || v[0].Layer != "footer" {
		t.Errorf("ValidateLayers() = %+v, want only footer", v)
	}
}
