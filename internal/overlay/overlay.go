// Package overlay adds legibility scrims between photos and the text set
// over them.
package overlay

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
	"github.com/fpang/ai-layout-corrector/internal/layer"
)

const (
	// NamePrefix starts the name of every overlay inserted for a text layer.
	NamePrefix = "overlay_for_"
	// Opacity is the opacity of an inserted overlay.
	Opacity = 0.6
	// Color is the fill of an inserted overlay.
	Color = "#000000"
	// Padding extends an overlay above and below its text.
	Padding = 24
)

// Name returns the overlay name for a text layer.
func Name(textName string) string {
	return NamePrefix + textName
}

// GradientPrefix starts the name of every gradient overlay.
const GradientPrefix = "gradient_overlay_"

// IsGradient reports whether l is a gradient overlay.
func IsGradient(l layer.Layer) bool {
	return strings.HasPrefix(l.Name, GradientPrefix)
}

func isPhoto(l layer.Layer) bool {
	return l.Type == layer.TypeImage || l.NameHas("photo")
}

// hasOwnBackground reports whether the text layer paints an opaque box
// behind itself.
func hasOwnBackground(l layer.Layer) bool {
	return l.Type == layer.TypeTextbox && l.Text != nil && hexcolor.IsOpaque(l.Text.Fill)
}

// isTranslucent reports whether l is a rectangle that dims what lies
// beneath it.
func isTranslucent(l layer.Layer) bool {
	return l.Type == layer.TypeRectangle && !l.Hidden && l.Opacity > 0 && l.Opacity < 1
}

// Needs reports whether the text layer at i sits over a photo below it in
// the stack with nothing between to keep it legible.
func Needs(layers []layer.Layer, i int) bool {
	t := layers[i]
	if !t.IsTextual() || t.Hidden || hasOwnBackground(t) {
		return false
	}
	name := Name(t.Name)
	if slices.ContainsFunc(layers, func(l layer.Layer) bool { return l.Name == name }) {
		return false
	}
	r := t.Rect()
	onPhoto := false
	for _, l := range layers[:i] {
		if isPhoto(l) && !l.Hidden && r.Intersects(l.Rect()) {
			onPhoto = true
		}
	}
	if !onPhoto {
		return false
	}
	for _, l := range layers[:i] {
		if (isTranslucent(l) || l.IsOverlay()) && l.Rect().Contains(r) {
			return false
		}
	}
	return true
}

// For builds the overlay for text: a full-width dark band extending Padding
// above and below it, clipped to the canvas.
func For(text layer.Layer, width, height float64) layer.Layer {
	y := math.Max(0, text.Y-Padding)
	h := text.Bottom() + Padding - y
	if height > 0 {
		h = math.Min(h, height-y)
	}
	return layer.Layer{
		Name:    Name(text.Name),
		Type:    layer.TypeRectangle,
		Y:       y,
		Width:   width,
		Height:  h,
		Opacity: Opacity,
		Shape:   &layer.ShapeProps{Fill: Color, CornerRadius: layer.Float(0)},
	}
}

// AddTextOverlays inserts an overlay directly beneath every text layer that
// Needs one and returns the names of the text layers served. Running it
// again adds nothing.
func AddTextOverlays(layers []layer.Layer, width, height float64) ([]layer.Layer, []string) {
	out := make([]layer.Layer, 0, len(layers))
	var added []string
	for i, l := range layers {
		if Needs(layers, i) {
			out = append(out, For(l, width, height))
			added = append(added, l.Name)
		}
		out = append(out, l)
	}
	if len(added) > 0 {
		log.Debug().Strs("forText", added).Msg("Text overlays added")
	}
	return out, added
}

// Edge selects where a gradient overlay is anchored.
type Edge string

const (
	Top    Edge = "top"
	Bottom Edge = "bottom"
)

// gradientCoverage is the share of the canvas height a GradientOverlay
// covers.
const gradientCoverage = 0.4

func rgba(opacity float64) string {
	return fmt.Sprintf("rgba(0,0,0,%g)", opacity)
}

func gradientProps(start, end string, angle int) map[string]json.RawMessage {
	raw := func(v any) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}
	return map[string]json.RawMessage{
		"fillType":           raw("gradient"),
		"gradientStartColor": raw(start),
		"gradientEndColor":   raw(end),
		"gradientAngle":      raw(angle),
	}
}

// GradientOverlay returns a fade covering the top or bottom 40% of the
// canvas, darkest at the edge.
func GradientOverlay(edge Edge, width, height float64) layer.Layer {
	h := math.Trunc(height * gradientCoverage)
	l := layer.Layer{
		Name:    GradientPrefix + "bottom",
		Type:    layer.TypeRectangle,
		Y:       height - h,
		Width:   width,
		Height:  h,
		Opacity: 1,
		Shape:   &layer.ShapeProps{},
		Extra:   gradientProps(rgba(0), rgba(0.8), 180),
	}
	if edge == Top {
		l.Name = GradientPrefix + "top"
		l.Y = 0
		l.Extra = gradientProps(rgba(0.7), rgba(0), 180)
	}
	return l
}

// Preset is a named directional fade.
type Preset struct {
	Name         string  `json:"name"`
	Angle        int     `json:"angle"`
	StartOpacity float64 `json:"start_opacity"`
	EndOpacity   float64 `json:"end_opacity"`
	Coverage     float64 `json:"coverage"`
}

var (
	BottomFade    = Preset{Name: "bottom_fade", Angle: 0, StartOpacity: 0.85, Coverage: 0.35}
	TopFade       = Preset{Name: "top_fade", Angle: 180, StartOpacity: 0.8, Coverage: 0.3}
	SideFadeLeft  = Preset{Name: "side_fade_left", Angle: 90, StartOpacity: 0.8, Coverage: 0.2}
	SideFadeRight = Preset{Name: "side_fade_right", Angle: 270, StartOpacity: 0.8, Coverage: 0.2}
)

// PresetFor picks the fade for text whose average position is (x, y):
// bottom or top fades for text in the lower 40% or upper 30%, side fades
// for text hugging an edge, else a bottom fade.
func PresetFor(x, y, width, height float64) Preset {
	switch {
	case y > height*0.6:
		return BottomFade
	case y < height*0.3:
		return TopFade
	case x < width*0.35:
		return SideFadeLeft
	case x > width*0.65:
		return SideFadeRight
	}
	return BottomFade
}

// gradientBuffer is how far a vertical fade reaches past the topmost text.
const gradientBuffer = 20

// Gradient builds the overlay for p. Vertical fades run from the canvas
// edge to gradientBuffer beyond topY; side fades cover the preset's share
// of the width.
func Gradient(p Preset, width, height, topY float64) layer.Layer {
	l := layer.Layer{
		Name:    GradientPrefix + p.Name,
		Type:    layer.TypeRectangle,
		Opacity: 1,
		Shape:   &layer.ShapeProps{},
	}
	switch p.Angle {
	case 0:
		l.Y = math.Max(0, topY-gradientBuffer)
		l.Width, l.Height = width, height-l.Y
		l.Extra = gradientProps(rgba(p.EndOpacity), rgba(p.StartOpacity), p.Angle)
	case 180:
		l.Width, l.Height = width, math.Min(height, topY+gradientBuffer)
		l.Extra = gradientProps(rgba(p.EndOpacity), rgba(p.StartOpacity), p.Angle)
	default:
		l.Width, l.Height = math.Trunc(width*p.Coverage), height
		if p.Angle == 270 {
			l.X = width - l.Width
		}
		l.Extra = gradientProps(rgba(p.StartOpacity), rgba(p.EndOpacity), p.Angle)
	}
	return l
}

// AddGradientOverlay inserts one fade, chosen from the average text
// position, directly above the photo. Layouts without a photo or text, or
// that already carry a gradient overlay, are returned unchanged.
func AddGradientOverlay(layers []layer.Layer, width, height float64) ([]layer.Layer, bool) {
	if slices.ContainsFunc(layers, IsGradient) {
		return layers, false
	}
	photo := slices.IndexFunc(layers, isPhoto)
	var sumX, sumY float64
	topY := math.Inf(1)
	n := 0
	for _, l := range layers {
		if !l.IsTextual() {
			continue
		}
		sumX += l.X
		sumY += l.Y
		topY = math.Min(topY, l.Y)
		n++
	}
	if photo < 0 || n == 0 {
		return layers, false
	}

	p := PresetFor(sumX/float64(n), sumY/float64(n), width, height)
	g := Gradient(p, width, height, topY)
	log.Debug().Str("preset", p.Name).Float64("topmostTextY", topY).Msg("Gradient overlay inserted")
	return slices.Insert(slices.Clone(layers), photo+1, g), true
}
