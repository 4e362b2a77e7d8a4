package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name          string
		wantName      string
		width, height float64
	}{
		{"square", "square", 1080, 1080},
		{"portrait", "portrait", 1080, 1350},
		{"story", "story", 1080, 1920},
		{"landscape", "landscape", 1920, 1080},
		{"pinterest", "pinterest", 1000, 1500},
		{"billboard", "square", 1080, 1080},
		{"", "square", 1080, 1080},
	}
	for _, tt := range tests {
		f := Get(tt.name)
		if f.Name != tt.wantName || f.Width != tt.width || f.Height != tt.height {
			t.Errorf("Get(%q) = %s %vx%v, want %s %vx%v", tt.name, f.Name, f.Width, f.Height, tt.wantName, tt.width, tt.height)
		}
	}

	if z := Get("story").SafeZone; z != (SafeZone{Top: 250, Bottom: 250}) {
		t.Errorf("story safe zone = %+v", z)
	}
	for _, n := range []string{"square", "portrait", "landscape"} {
		if !Get(n).SafeZone.IsZero() {
			t.Errorf("%s has a safe zone", n)
		}
	}
	if len(Names()) != 7 {
		t.Errorf("Names() = %v, want 7 formats", Names())
	}
}

func TestPlatforms(t *testing.T) {
	tests := []struct {
		platform, industry, want string
	}{
		{"tiktok", "", "story"},
		{"linkedin", "", "landscape"},
		{"linkedin_post", "", "linkedin"},
		{"myspace", "", "square"},
		{"instagram", "beauty", "portrait"},
		{"instagram", "tech", "square"},
		{"pinterest", "fashion", "pinterest"},
	}
	for _, tt := range tests {
		if got := Recommended(tt.platform, tt.industry); got != tt.want {
			t.Errorf("Recommended(%q, %q) = %q, want %q", tt.platform, tt.industry, got, tt.want)
		}
	}
}

func sample() []layer.Layer {
	return []layer.Layer{
		{Name: "photo", Type: layer.TypeImage, Width: 1080, Height: 1080},
		{Name: "headline", Type: layer.TypeText, X: 80, Y: 540, Width: 920, Height: 120,
			Text: &layer.TextProps{FontSize: 49}},
		{Name: "cta", Type: layer.TypeTextbox, X: 400, Y: 900, Width: 280, Height: 64,
			Text: &layer.TextProps{FontSize: 16}},
	}
}

func TestScaleLayers(t *testing.T) {
	tests := []struct {
		target       string
		wantHeadline layer.Rect
		wantHeadSize float64
		wantCTASize  float64
	}{
		{"square", layer.Rect{X: 80, Y: 540, Width: 920, Height: 120}, 49, 16},
		{"story", layer.Rect{X: 80, Y: 960, Width: 920, Height: 213}, 87, 28},
		{"landscape", layer.Rect{X: 142, Y: 540, Width: 1635, Height: 120}, 87, 28},
		{"linkedin", layer.Rect{X: 88, Y: 313, Width: 1022, Height: 69}, 28, 12},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			in := sample()
			got := ScaleLayers(in, Base, tt.target)
			if diff := cmp.Diff(tt.wantHeadline, got[1].Rect()); diff != "" {
				t.Errorf("headline rect mismatch (-want +got):\n%s", diff)
			}
			if got[1].FontSize() != tt.wantHeadSize || got[2].FontSize() != tt.wantCTASize {
				t.Errorf("font sizes = %v/%v, want %v/%v", got[1].FontSize(), got[2].FontSize(), tt.wantHeadSize, tt.wantCTASize)
			}
			if in[1].FontSize() != 49 {
				t.Error("ScaleLayers mutated its input")
			}
		})
	}
}

func TestScaleZone(t *testing.T) {
	zone := layer.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	if got := ScaleZone(zone, Base, "square"); got != zone {
		t.Errorf("ScaleZone(square) = %+v", got)
	}
	want := layer.Rect{X: 100, Y: 177, Width: 200, Height: 426}
	if got := ScaleZone(zone, Base, "story"); got != want {
		t.Errorf("ScaleZone(story) = %+v, want %+v", got, want)
	}
	if got := ScaleZone(zone, layer.Canvas{}, "story"); got != want {
		t.Errorf("ScaleZone(zero canvas, story) = %+v, want Base as the source", got)
	}
	story := layer.Canvas{Width: 1080, Height: 1920}
	if got := ScaleZone(want, story, "story"); got != want {
		t.Errorf("ScaleZone(story to story) = %+v, want unchanged", got)
	}
	bottom := ScaleZone(layer.Rect{Y: 800, Width: 1080, Height: 280}, Base, "story")
	if bottom.Y+bottom.Height > 1920 {
		t.Errorf("ScaleZone(bottom band) = %+v, runs past the canvas", bottom)
	}
}

func TestAdjustForSafeZone(t *testing.T) {
	layers := []layer.Layer{
		{Name: "background_photo", Type: layer.TypeImage, Height: 1920},
		{Name: "headline", Type: layer.TypeText, Y: 100, Height: 100, Text: &layer.TextProps{}},
		{Name: "cta", Type: layer.TypeTextbox, Y: 1800, Height: 80, Text: &layer.TextProps{}},
		{Name: "body", Type: layer.TypeText, Y: 900, Height: 80, Text: &layer.TextProps{}},
		{Name: "ribbon", Type: layer.TypeRectangle, Y: 10, Height: 40},
	}
	got := AdjustForSafeZone(layers, "story")
	wantY := []float64{0, 270, 1570, 900, 10}
	for i, l := range got {
		if l.Y != wantY[i] {
			t.Errorf("%s y = %v, want %v", l.Name, l.Y, wantY[i])
		}
	}
	if layers[1].Y != 100 {
		t.Error("AdjustForSafeZone mutated its input")
	}

	same := AdjustForSafeZone(layers, "square")
	if diff := cmp.Diff(layers, same); diff != "" {
		t.Errorf("square adjusted layers (-want +got):\n%s", diff)
	}
}
