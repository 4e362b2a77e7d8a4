// Package layer defines the positioned-layer data model shared by every
// correction and critique service: a canvas element with geometry plus a
// type-tagged property variant.
package layer

import (
	"encoding/json"
	"maps"
	"strings"
)

// Type identifies the kind of visual element a layer renders.
type Type string

const (
	TypeText      Type = "text"
	TypeTextbox   Type = "textbox"
	TypeImage     Type = "image"
	TypeRectangle Type = "rectangle"
	TypeEllipse   Type = "ellipse"
	TypeLine      Type = "line"
	TypeGroup     Type = "group"
)

// IsTextual reports whether layers of this type carry text properties.
func (t Type) IsTextual() bool {
	return t == TypeText || t == TypeTextbox
}

// IsShape reports whether layers of this type carry shape properties.
func (t Type) IsShape() bool {
	return t == TypeRectangle || t == TypeEllipse || t == TypeLine
}

// TextProps holds the properties of text and textbox layers. For a text
// layer Fill is the glyph color; for a textbox Fill is the box background
// and TextColor the glyph color. Nil pointers mean "not set".
type TextProps struct {
	Text          string
	FontFamily    string
	FontSize      float64
	FontWeight    string
	Fill          string
	TextColor     string
	Align         string
	LineHeight    *float64
	LetterSpacing *float64
	Padding       *float64
	CornerRadius  *float64
}

// ShapeProps holds the properties of rectangle, ellipse and line layers.
type ShapeProps struct {
	Fill         string
	Stroke       string
	StrokeWidth  *float64
	CornerRadius *float64
}

// Shadow is the drop shadow attached to any layer type.
type Shadow struct {
	Enabled bool
	Color   string
	Blur    float64
	OffsetX float64
	OffsetY float64
	Opacity float64
}

// Layer is one positioned element of a template. Text is set only for
// textual types and Shape only for shape types; property keys that belong
// to neither variant are carried untouched in Extra.
//
// Layers are treated as values: services Clone before changing anything and
// never write through the pointer fields of a layer they received.
type Layer struct {
	ID       string
	Name     string
	Type     Type
	Role     Role
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
	Opacity  float64
	Hidden   bool

	Text   *TextProps
	Shape  *ShapeProps
	Shadow *Shadow
	Extra  map[string]json.RawMessage
}

// Canvas is the pixel size of the template being corrected.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Float returns a pointer to v, for the optional numeric properties.
func Float(v float64) *float64 {
	return &v
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	c := l
	if l.Text != nil {
		t := *l.Text
		t.LineHeight = cloneFloat(l.Text.LineHeight)
		t.LetterSpacing = cloneFloat(l.Text.LetterSpacing)
		t.Padding = cloneFloat(l.Text.Padding)
		t.CornerRadius = cloneFloat(l.Text.CornerRadius)
		c.Text = &t
	}
	if l.Shape != nil {
		s := *l.Shape
		s.StrokeWidth = cloneFloat(l.Shape.StrokeWidth)
		s.CornerRadius = cloneFloat(l.Shape.CornerRadius)
		c.Shape = &s
	}
	if l.Shadow != nil {
		sh := *l.Shadow
		c.Shadow = &sh
	}
	if l.Extra != nil {
		c.Extra = maps.Clone(l.Extra)
	}
	return c
}

// CloneAll returns a deep copy of layers.
func CloneAll(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = l.Clone()
	}
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IsTextual reports whether the layer renders text.
func (l Layer) IsTextual() bool {
	return l.Type.IsTextual()
}

// FontSize returns the layer's font size, or 0 when it has none.
func (l Layer) FontSize() float64 {
	if l.Text == nil {
		return 0
	}
	return l.Text.FontSize
}

// GlyphColor returns the color the layer's text is drawn in: textColor for a
// textbox, fill for a plain text layer.
func (l Layer) GlyphColor() string {
	if l.Text == nil {
		return ""
	}
	if l.Type == TypeTextbox {
		return l.Text.TextColor
	}
	return l.Text.Fill
}

// BackgroundFill returns the fill painted behind content: a textbox's box
// color or a shape's fill.
func (l Layer) BackgroundFill() string {
	switch {
	case l.Type == TypeTextbox && l.Text != nil:
		return l.Text.Fill
	case l.Shape != nil:
		return l.Shape.Fill
	}
	return ""
}

// HasShadow reports whether an enabled shadow is attached.
func (l Layer) HasShadow() bool {
	return l.Shadow != nil && l.Shadow.Enabled
}

// IsOverlay reports whether the layer is a legibility scrim placed between a
// photo and text.
func (l Layer) IsOverlay() bool {
	if l.Type != TypeRectangle {
		return false
	}
	n := strings.ToLower(l.Name)
	return strings.HasPrefix(n, "overlay") || strings.Contains(n, "scrim")
}

// Rect returns the layer's bounding box.
func (l Layer) Rect() Rect {
	return Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Bottom returns the y coordinate of the layer's lower edge.
func (l Layer) Bottom() float64 {
	return l.Y + l.Height
}

// NameHas reports whether the lower-cased layer name contains any of subs.
func (l Layer) NameHas(subs ...string) bool {
	return containsAny(strings.ToLower(l.Name), subs...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
