// Package elevation maps discrete elevation levels to drop shadows so that
// interactive and primary elements read as floating above the canvas.
package elevation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

const (
	MinLevel = 0
	MaxLevel = 5
	// CTALevel is the elevation calls to action float at.
	CTALevel = 3
)

// ShadowColor is the color of every elevation shadow.
const ShadowColor = "#000000"

// ShadowLayer is one stacked component of an elevation's shadow.
type ShadowLayer struct {
	Blur    float64 `json:"blur"`
	OffsetY float64 `json:"offset_y"`
	Opacity float64 `json:"opacity"`
}

// levels holds the key and ambient shadow for each level.
var levels = [MaxLevel + 1][]ShadowLayer{
	0: nil,
	1: {{Blur: 2, OffsetY: 1, Opacity: 0.08}, {Blur: 3, OffsetY: 1, Opacity: 0.05}},
	2: {{Blur: 4, OffsetY: 2, Opacity: 0.10}, {Blur: 5, OffsetY: 2, Opacity: 0.06}},
	3: {{Blur: 8, OffsetY: 4, Opacity: 0.12}, {Blur: 10, OffsetY: 4, Opacity: 0.08}},
	4: {{Blur: 16, OffsetY: 8, Opacity: 0.14}, {Blur: 20, OffsetY: 8, Opacity: 0.10}},
	5: {{Blur: 24, OffsetY: 12, Opacity: 0.16}, {Blur: 32, OffsetY: 12, Opacity: 0.12}},
}

func clamp(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}

// ShadowLayers returns every shadow component for level, key shadow first.
func ShadowLayers(level int) []ShadowLayer {
	return append([]ShadowLayer(nil), levels[clamp(level)]...)
}

// ShadowFor returns the key shadow for level. Level 0 yields a disabled
// shadow.
func ShadowFor(level int) layer.Shadow {
	ls := levels[clamp(level)]
	if len(ls) == 0 {
		return layer.Shadow{}
	}
	return layer.Shadow{
		Enabled: true,
		Color:   ShadowColor,
		Blur:    ls[0].Blur,
		OffsetY: ls[0].OffsetY,
		Opacity: ls[0].Opacity,
	}
}

// LevelFor picks an elevation from a layer's type and name.
func LevelFor(t layer.Type, name string) int {
	n := strings.ToLower(name)
	switch {
	case t == layer.TypeImage || strings.HasPrefix(n, "overlay") || strings.Contains(n, "background"):
		return 0
	case t == layer.TypeTextbox || strings.Contains(n, "cta") || strings.Contains(n, "button"):
		return CTALevel
	case strings.Contains(n, "card") || strings.Contains(n, "panel"):
		return 2
	case strings.Contains(n, "accent") || strings.Contains(n, "highlight"):
		return 1
	}
	return 0
}

// levelForLayer prefers the layer's role over name matching.
func levelForLayer(l layer.Layer) int {
	switch l.Role {
	case layer.RoleCTA:
		return CTALevel
	case layer.RoleBackground, layer.RoleImage, layer.RoleHeadline, layer.RoleSubtext:
		return 0
	case layer.RoleAccent:
		return 1
	}
	return LevelFor(l.Type, l.Name)
}

// ApplyLevel returns a copy of l carrying the shadow for level. Other
// properties are kept; level 0 returns l unchanged.
func ApplyLevel(l layer.Layer, level int) layer.Layer {
	if clamp(level) == 0 {
		return l
	}
	c := l.Clone()
	s := ShadowFor(level)
	c.Shadow = &s
	return c
}

// ApplyToLayer elevates l according to LevelFor.
func ApplyToLayer(l layer.Layer) layer.Layer {
	return ApplyLevel(l, levelForLayer(l))
}

// ApplyToLayers elevates every layer according to LevelFor.
func ApplyToLayers(layers []layer.Layer) []layer.Layer {
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		out[i] = ApplyToLayer(l)
	}
	return out
}

// CSSBoxShadow renders level as a CSS box-shadow value.
func CSSBoxShadow(level int) string {
	ls := levels[clamp(level)]
	if len(ls) == 0 {
		return "none"
	}
	parts := make([]string, len(ls))
	for i, s := range ls {
		parts[i] = fmt.Sprintf("0 %spx %spx rgba(0, 0, 0, %s)", fmtNum(s.OffsetY), fmtNum(s.Blur), fmtNum(s.Opacity))
	}
	return strings.Join(parts, ", ")
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Floating holds the shadows for an interactive element's states.
type Floating struct {
	Normal  layer.Shadow `json:"normal"`
	Hover   layer.Shadow `json:"hover"`
	Pressed layer.Shadow `json:"pressed"`
}

// FloatingEffect lifts base by one level on hover and drops it by one when
// pressed.
func FloatingEffect(base int) Floating {
	return Floating{
		Normal:  ShadowFor(base),
		Hover:   ShadowFor(min(MaxLevel, base+1)),
		Pressed: ShadowFor(max(MinLevel, base-1)),
	}
}

var (
	glowBlur    = [3]float64{30, 45, 60}
	glowOpacity = [3]float64{0.10, 0.12, 0.15}
)

// SoftGlow returns a diffuse, offset-free shadow. Intensity runs 1 (low)
// to 3 (high) and is clamped.
func SoftGlow(intensity int) layer.Shadow {
	i := max(0, min(2, intensity-1))
	return layer.Shadow{
		Enabled: true,
		Color:   ShadowColor,
		Blur:    glowBlur[i],
		Opacity: glowOpacity[i],
	}
}

// ApplySoftGlowToCTAs gives every call-to-action layer a soft glow.
func ApplySoftGlowToCTAs(layers []layer.Layer, intensity int) []layer.Layer {
	glow := SoftGlow(intensity)
	out := make([]layer.Layer, len(layers))
	applied := 0
	for i, l := range layers {
		if !l.IsCTA() {
			out[i] = l
			continue
		}
		c := l.Clone()
		s := glow
		c.Shadow = &s
		out[i] = c
		applied++
	}
	log.Debug().Int("ctaLayers", applied).Int("intensity", intensity).Msg("Soft glow applied")
	return out
}
