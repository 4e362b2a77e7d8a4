// Package grid quantizes layer geometry onto the 8px layout grid.
package grid

import (
	"math"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// Size is the grid pitch in pixels.
const Size = 8

// Snap returns the multiple of Size nearest to v, rounding halves up
// (toward +Inf) for negative values too. Non-finite input snaps to 0.
func Snap(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v/Size+0.5) * Size
}

// IsOnGrid reports whether v is an exact multiple of Size.
func IsOnGrid(v float64) bool {
	return math.Mod(v, Size) == 0
}

// Values returns every grid line between min and max inclusive.
func Values(min, max float64) []float64 {
	var out []float64
	for v := math.Ceil(min/Size) * Size; v <= max; v += Size {
		out = append(out, v)
	}
	return out
}

// SnapLayer returns a copy of l with position, size, corner radius and
// padding on the grid. Width and height never drop below one grid unit.
func SnapLayer(l layer.Layer) layer.Layer {
	c := l.Clone()
	c.X = Snap(l.X)
	c.Y = Snap(l.Y)
	c.Width = math.Max(Size, Snap(l.Width))
	c.Height = math.Max(Size, Snap(l.Height))

	if t := c.Text; t != nil {
		t.CornerRadius = snapPtr(t.CornerRadius)
		t.Padding = snapPtr(t.Padding)
	}
	if s := c.Shape; s != nil {
		s.CornerRadius = snapPtr(s.CornerRadius)
	}
	return c
}

// SnapLayers applies SnapLayer to every layer.
func SnapLayers(layers []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		out[i] = SnapLayer(l)
	}
	return out
}

func snapPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return layer.Float(Snap(*p))
}
