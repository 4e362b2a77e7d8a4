// Package positioning keeps text layers legible as a group. The call to
// action is anchored at the bottom and the remaining text stacks above it
// without overlapping, inside the canvas margins.
package positioning

import (
	"cmp"
	"math"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/grid"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
)

const (
	// Margin is the minimum distance between text and the canvas sides.
	Margin = 40
	// CTABand is the share of the canvas height, measured from the bottom,
	// the call to action belongs in.
	CTABand = 0.15
	// DefaultSpacing separates a new text block from the one above it.
	DefaultSpacing = 24
)

// Kind names what an Adjustment did.
type Kind string

const (
	CTAReposition Kind = "cta_reposition"
	OverlapPush   Kind = "overlap_push"
	BottomClamp   Kind = "bottom_clamp"
	StackShrink   Kind = "stack_shrink"
	MarginClamp   Kind = "margin_clamp"
)

// Adjustment records one geometry change.
type Adjustment struct {
	Kind  Kind       `json:"kind"`
	Layer string     `json:"layer"`
	From  layer.Rect `json:"from"`
	To    layer.Rect `json:"to"`
}

// DefaultMargins keeps text Margin away from the canvas sides and lets it
// run to the top and bottom edges.
var DefaultMargins = tokens.Margins{Left: Margin, Right: Margin}

// Fix is FixWithin using DefaultMargins.
func Fix(layers []layer.Layer, width, height float64) ([]layer.Layer, []Adjustment) {
	return FixWithin(layers, width, height, DefaultMargins)
}

// FixWithin returns a copy of layers with, in order: the call to action
// moved into the bottom band and centered, the remaining text blocks
// pushed down until no two share a vertical span, the stack lifted so it
// ends above the call to action and the bottom margin, and every text
// block clamped inside the side margins. A stack taller than the space
// left is shrunk proportionally, font sizes included. Canvases too small
// to hold the margins are returned unchanged.
func FixWithin(layers []layer.Layer, width, height float64, m tokens.Margins) ([]layer.Layer, []Adjustment) {
	out := layer.CloneAll(layers)
	if width-m.Left-m.Right < grid.Size || height-m.Top-m.Bottom < grid.Size {
		log.Warn().Float64("width", width).Float64("height", height).Msg("Canvas too small for text positioning, skipping")
		return out, nil
	}

	var adj []Adjustment
	record := func(k Kind, i int, from layer.Rect) {
		if to := out[i].Rect(); to != from {
			adj = append(adj, Adjustment{Kind: k, Layer: out[i].Name, From: from, To: to})
		}
	}

	floor := height - m.Bottom
	cta := ctaIndex(out)
	if cta >= 0 {
		from := out[cta].Rect()
		placeCTA(&out[cta], width, height)
		record(CTAReposition, cta, from)
		floor = min(floor, out[cta].Y)
	}

	var stack []int
	for i, l := range out {
		if l.IsTextual() && !l.Hidden && i != cta {
			stack = append(stack, i)
		}
	}
	slices.SortStableFunc(stack, func(a, b int) int { return cmp.Compare(out[a].Y, out[b].Y) })

	bottom := m.Top
	for _, i := range stack {
		if out[i].Y < bottom {
			from := out[i].Rect()
			out[i].Y = bottom
			record(OverlapPush, i, from)
		}
		bottom = max(bottom, out[i].Bottom())
	}

	limit := floor
	for _, i := range slices.Backward(stack) {
		if out[i].Bottom() > limit {
			from := out[i].Rect()
			out[i].Y = limit - out[i].Height
			record(BottomClamp, i, from)
		}
		limit = out[i].Y
	}
	if len(stack) > 0 && out[stack[0]].Y < m.Top {
		adj = append(adj, shrinkStack(out, stack, m.Top, floor)...)
	}

	for _, i := range stack {
		from := out[i].Rect()
		clampToMargins(&out[i], width, m)
		record(MarginClamp, i, from)
	}
	if cta >= 0 {
		from := out[cta].Rect()
		clampToMargins(&out[cta], width, m)
		record(MarginClamp, cta, from)
	}

	if len(adj) > 0 {
		log.Debug().Int("adjustments", len(adj)).Msg("Text positioning fixed")
	}
	return out, adj
}

// shrinkStack scales the heights and font sizes of stack, already sorted
// top to bottom, so the blocks fit one under another between top and
// floor. Blocks never shrink below grid.Size.
func shrinkStack(out []layer.Layer, stack []int, top, floor float64) []Adjustment {
	total := 0.0
	for _, i := range stack {
		total += out[i].Height
	}
	ratio := 0.0
	if total > 0 {
		ratio = max(0, floor-top) / total
	}
	log.Warn().Float64("stackHeight", total).Float64("available", floor-top).Msg("Text stack does not fit, shrinking")

	var adj []Adjustment
	y := top
	for _, i := range stack {
		from := out[i].Rect()
		out[i].Y = y
		out[i].Height = max(grid.Size, math.Floor(out[i].Height*ratio))
		if out[i].Text != nil && out[i].Text.FontSize > 0 {
			out[i].Text.FontSize = max(1, math.Floor(out[i].Text.FontSize*ratio))
		}
		y = out[i].Bottom()
		if to := out[i].Rect(); to != from {
			adj = append(adj, Adjustment{Kind: StackShrink, Layer: out[i].Name, From: from, To: to})
		}
	}
	return adj
}

func ctaIndex(layers []layer.Layer) int {
	return slices.IndexFunc(layers, func(l layer.Layer) bool { return l.IsCTA() && !l.Hidden })
}

// InCTABand reports whether l lies entirely within the bottom band. A
// layer taller than the band counts when it sits flush with the bottom
// edge.
func InCTABand(l layer.Layer, height float64) bool {
	if l.Y < 0 || l.Bottom() > height {
		return false
	}
	return l.Y >= height*(1-CTABand) || (l.Height > height*CTABand && l.Bottom() == height)
}

func placeCTA(l *layer.Layer, width, height float64) {
	l.Height = min(l.Height, height)
	if !InCTABand(*l, height) {
		y := grid.Snap(height * (1 - CTABand))
		if y+l.Height > height {
			y = height - l.Height
		}
		l.Y = y
	}
	*l = CenterHorizontally(*l, width)
}

func clampToMargins(l *layer.Layer, width float64, m tokens.Margins) {
	if l.Width > width-m.Left-m.Right {
		l.Width = width - m.Left - m.Right
		l.X = m.Left
		return
	}
	switch {
	case l.X < m.Left:
		l.X = m.Left
	case l.X+l.Width > width-m.Right:
		l.X = width - m.Right - l.Width
	}
}

// CenterHorizontally returns l moved to the horizontal center of a canvas
// width pixels wide.
func CenterHorizontally(l layer.Layer, width float64) layer.Layer {
	l.X = float64(int((width - l.Width) / 2))
	return l
}

// AlignLeft returns layers with every text block's left edge at x.
func AlignLeft(layers []layer.Layer, x float64) []layer.Layer {
	out := slices.Clone(layers)
	for i := range out {
		if out[i].IsTextual() {
			out[i].X = x
		}
	}
	return out
}

// NextY returns the y at which a new text block should start: spacing below
// the lowest existing text block, or spacing when there is none.
func NextY(layers []layer.Layer, spacing float64) float64 {
	bottom := 0.0
	for _, l := range layers {
		if l.IsTextual() {
			bottom = max(bottom, l.Bottom())
		}
	}
	return bottom + spacing
}
