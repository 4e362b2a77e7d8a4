package layer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnmarshalJSON_TextLayer(t *testing.T) {
	raw := `{
		"id": "h1", "name": "headline", "type": "text",
		"x": 80, "y": 120, "width": 920, "height": 140,
		"properties": {
			"text": "Summer sale", "fontSize": 49, "fontWeight": 700,
			"fill": "#FFFFFF", "lineHeight": 1.2, "fontStyle": "italic"
		}
	}`

	var l Layer
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if l.Opacity != 1 || l.Hidden {
		t.Errorf("defaults: opacity = %v, hidden = %v, want 1, false", l.Opacity, l.Hidden)
	}
	if l.Text == nil {
		t.Fatal("Text variant not populated for a text layer")
	}
	if l.Shape != nil {
		t.Error("Shape variant populated for a text layer")
	}
	if l.Text.FontSize != 49 || l.Text.FontWeight != "700" || l.Text.Fill != "#FFFFFF" {
		t.Errorf("Text = %+v", *l.Text)
	}
	if l.Text.LineHeight == nil || *l.Text.LineHeight != 1.2 {
		t.Errorf("LineHeight = %v, want 1.2", l.Text.LineHeight)
	}
	if _, ok := l.Extra["fontStyle"]; !ok {
		t.Errorf("Extra = %v, want fontStyle preserved", l.Extra)
	}
}

func TestUnmarshalJSON_ShapeAndShadow(t *testing.T) {
	raw := `{
		"name": "card", "type": "rectangle", "x": 0, "y": 0, "width": 100, "height": 100,
		"visible": false,
		"properties": {"fill": "#1E3A5F", "cornerRadius": 12, "shadowEnabled": true, "shadowBlur": 8, "opacity": 0.5}
	}`

	var l Layer
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !l.Hidden {
		t.Error("Hidden = false, want true for visible:false")
	}
	if l.Opacity != 0.5 {
		t.Errorf("Opacity = %v, want 0.5 folded from properties", l.Opacity)
	}
	if l.Shape == nil || l.Shape.Fill != "#1E3A5F" || l.Shape.CornerRadius == nil || *l.Shape.CornerRadius != 12 {
		t.Errorf("Shape = %+v", l.Shape)
	}
	if !l.HasShadow() || l.Shadow.Blur != 8 {
		t.Errorf("Shadow = %+v", l.Shadow)
	}
	if len(l.Extra) != 0 {
		t.Errorf("Extra = %v, want empty", l.Extra)
	}
}

func TestUnmarshalJSON_BadProperty(t *testing.T) {
	raw := `{"name": "x", "type": "text", "properties": {"fontSize": "huge"}}`
	var l Layer
	if err := json.Unmarshal([]byte(raw), &l); err == nil {
		t.Error("Unmarshal() error = nil, want error for non-numeric fontSize")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := Layer{
		ID: "cta", Name: "cta_button", Type: TypeTextbox, Role: RoleCTA,
		X: 400, Y: 900, Width: 280, Height: 64, Opacity: 1,
		Text: &TextProps{
			Text: "Book now", FontSize: 16, FontWeight: "600",
			Fill: "#D4AF37", TextColor: "#1A1A2E", Padding: Float(16), CornerRadius: Float(500),
		},
		Shadow: &Shadow{Enabled: true, Color: "#000000", Blur: 8, OffsetY: 4, Opacity: 0.12},
		Extra:  map[string]json.RawMessage{"fontStyle": json.RawMessage(`"normal"`)},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out Layer
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := Layer{
		Type: TypeText,
		Text: &TextProps{FontSize: 20, LineHeight: Float(1.5)},
	}
	c := orig.Clone()
	c.Text.FontSize = 49
	*c.Text.LineHeight = 2

	if orig.Text.FontSize != 20 || *orig.Text.LineHeight != 1.5 {
		t.Errorf("Clone shares state with original: %+v", *orig.Text)
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		name  string
		layer string
		typ   Type
		want  Role
	}{
		{"photo", "hero", TypeImage, RoleImage},
		{"textbox is cta", "label", TypeTextbox, RoleCTA},
		{"button rectangle", "cta_button", TypeRectangle, RoleCTA},
		{"subtitle", "Subtitle", TypeText, RoleSubtext},
		{"headline", "main_headline", TypeText, RoleHeadline},
		{"subheadline is subtext", "subheadline", TypeText, RoleSubtext},
		{"background rect", "background", TypeRectangle, RoleBackground},
		{"headline rect is not headline", "headline_bar", TypeRectangle, RoleNone},
		{"accent", "accent_line", TypeLine, RoleAccent},
		{"overlay", "overlay_for_cta", TypeRectangle, RoleNone},
		{"unknown", "decoration", TypeEllipse, RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferRole(tt.layer, tt.typ); got != tt.want {
				t.Errorf("InferRole(%q, %q) = %q, want %q", tt.layer, tt.typ, got, tt.want)
			}
		})
	}
}

func TestEffectiveRole_PrefersExplicit(t *testing.T) {
	l := Layer{Name: "headline", Type: TypeText, Role: RoleSubtext}
	if got := l.EffectiveRole(); got != RoleSubtext {
		t.Errorf("EffectiveRole() = %q, want %q", got, RoleSubtext)
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"touching edge", Rect{X: 100, Y: 0, Width: 50, Height: 50}, false},
		{"disjoint", Rect{X: 300, Y: 300, Width: 10, Height: 10}, false},
		{"inside", Rect{X: 10, Y: 10, Width: 10, Height: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("Intersects() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}
