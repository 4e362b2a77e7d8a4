// Package format is the registry of social-media canvas formats and the
// geometry needed to move a layout between them.
package format

import (
	"math"
	"slices"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// SafeZone is the band along each edge reserved for platform chrome.
type SafeZone struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// IsZero reports whether the zone reserves nothing.
func (z SafeZone) IsZero() bool {
	return z == SafeZone{}
}

// Format is a named canvas size with the platforms it targets.
type Format struct {
	Name        string   `json:"name"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Ratio       string   `json:"ratio"`
	Platforms   []string `json:"platforms"`
	SafeZone    SafeZone `json:"safe_zone"`
	Description string   `json:"description"`
}

// Canvas returns the format's pixel size.
func (f Format) Canvas() layer.Canvas {
	return layer.Canvas{Width: f.Width, Height: f.Height}
}

// Default is the format unknown names resolve to. Layouts are authored on
// its canvas.
const Default = "square"

// Base is the canvas every layout is authored on.
var Base = layer.Canvas{Width: 1080, Height: 1080}

// registry is in lookup order: the first format listing a platform is that
// platform's best format.
var registry = []Format{
	{Name: "square", Width: 1080, Height: 1080, Ratio: "1:1",
		Platforms: []string{"instagram_feed", "facebook"}, Description: "Standard square format"},
	{Name: "portrait", Width: 1080, Height: 1350, Ratio: "4:5",
		Platforms: []string{"instagram_feed_optimal"}, Description: "Instagram optimal portrait"},
	{Name: "tall", Width: 1080, Height: 1440, Ratio: "3:4",
		Platforms: []string{"instagram_grid_friendly"}, Description: "Tall portrait format"},
	{Name: "story", Width: 1080, Height: 1920, Ratio: "9:16",
		Platforms: []string{"instagram_stories", "reels", "tiktok", "snapchat"},
		SafeZone:  SafeZone{Top: 250, Bottom: 250}, Description: "Full vertical for Stories/Reels"},
	{Name: "landscape", Width: 1920, Height: 1080, Ratio: "16:9",
		Platforms: []string{"youtube_thumbnail", "linkedin", "twitter"}, Description: "Widescreen landscape"},
	{Name: "linkedin", Width: 1200, Height: 627, Ratio: "1.91:1",
		Platforms: []string{"linkedin_post", "linkedin_article"}, Description: "LinkedIn optimal format"},
	{Name: "pinterest", Width: 1000, Height: 1500, Ratio: "2:3",
		Platforms: []string{"pinterest"}, Description: "Pinterest pin format"},
}

// Lookup returns the named format and whether it exists.
func Lookup(name string) (Format, bool) {
	i := slices.IndexFunc(registry, func(f Format) bool { return f.Name == name })
	if i < 0 {
		return Format{}, false
	}
	return registry[i], true
}

// Get returns the named format, falling back to Default.
func Get(name string) Format {
	if f, ok := Lookup(name); ok {
		return f
	}
	f, _ := Lookup(Default)
	return f
}

// All returns every registered format.
func All() []Format {
	return slices.Clone(registry)
}

// Names returns every format name in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, f := range registry {
		names[i] = f.Name
	}
	return names
}

// ForPlatform returns the formats listing platform.
func ForPlatform(platform string) []Format {
	var out []Format
	for _, f := range registry {
		if slices.Contains(f.Platforms, platform) {
			out = append(out, f)
		}
	}
	return out
}

// BestForPlatform returns the first format listing platform, or Default.
func BestForPlatform(platform string) string {
	if fs := ForPlatform(platform); len(fs) > 0 {
		return fs[0].Name
	}
	return Default
}

var portraitIndustries = []string{"beauty", "fashion", "fitness"}

// Recommended returns the format for platform, preferring portrait for
// Instagram posts in visual-first industries.
func Recommended(platform, industry string) string {
	if platform == "instagram" && slices.Contains(portraitIndustries, industry) {
		return "portrait"
	}
	return BestForPlatform(platform)
}

// scale maps v from a dimension of size from to one of size to, truncated
// to whole pixels.
func scale(v, to, from float64) float64 {
	return math.Trunc(v * to / from)
}

// MinFontSize is the smallest font size scaling produces.
const MinFontSize = 12

// ScaleLayers returns copies of layers rescaled from the from canvas to the
// target format. Horizontal geometry follows the width ratio and vertical
// geometry the height ratio. Font sizes follow the ratio of the dimension
// that changed, or the smaller ratio when both did.
func ScaleLayers(layers []layer.Layer, from layer.Canvas, target string) []layer.Layer {
	if from.Width <= 0 || from.Height <= 0 {
		from = Base
	}
	f := Get(target)
	fontTo, fontFrom := f.Height, from.Height
	switch {
	case f.Height == from.Height:
		fontTo, fontFrom = f.Width, from.Width
	case f.Width != from.Width && f.Width/from.Width < f.Height/from.Height:
		fontTo, fontFrom = f.Width, from.Width
	}

	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		c := l.Clone()
		c.X = scale(l.X, f.Width, from.Width)
		c.Y = scale(l.Y, f.Height, from.Height)
		c.Width = scale(l.Width, f.Width, from.Width)
		c.Height = scale(l.Height, f.Height, from.Height)
		if c.Text != nil && c.IsTextual() {
			size := c.Text.FontSize
			if size <= 0 {
				size = 16
			}
			c.Text.FontSize = math.Max(MinFontSize, scale(size, fontTo, fontFrom))
		}
		out[i] = c
	}
	return out
}

// ScaleZone rescales a zone authored on the from canvas for the target
// format. Moving to a tall format from one that is not stretches zone
// heights a further 20% to use the extra space, never past the canvas.
func ScaleZone(zone layer.Rect, from layer.Canvas, target string) layer.Rect {
	if from.Width <= 0 || from.Height <= 0 {
		from = Base
	}
	f := Get(target)
	h := zone.Height * f.Height / from.Height
	if isTall(f.Width, f.Height) && !isTall(from.Width, from.Height) {
		h *= 1.2
	}
	y := scale(zone.Y, f.Height, from.Height)
	return layer.Rect{
		X:      scale(zone.X, f.Width, from.Width),
		Y:      y,
		Width:  scale(zone.Width, f.Width, from.Width),
		Height: math.Max(0, math.Min(math.Trunc(h), f.Height-y)),
	}
}

func isTall(width, height float64) bool {
	return height > width*1.3
}

// safeZoneGap is the clearance kept between moved text and a band.
const safeZoneGap = 20

// AdjustForSafeZone moves text layers out of the named format's top and
// bottom chrome bands. Backgrounds and photos stay full-bleed. Formats
// without a safe zone return layers unchanged.
func AdjustForSafeZone(layers []layer.Layer, name string) []layer.Layer {
	f := Get(name)
	if f.SafeZone.IsZero() {
		return layers
	}
	out := make([]layer.Layer, len(layers))
	for i, l := range layers {
		out[i] = l
		if !l.IsTextual() || l.NameHas("background", "photo") {
			continue
		}
		h := l.Height
		if h <= 0 {
			h = 50
		}
		y := l.Y
		if y < f.SafeZone.Top {
			y = f.SafeZone.Top + safeZoneGap
		}
		if maxY := f.Height - f.SafeZone.Bottom - h; y > maxY {
			y = maxY - safeZoneGap
		}
		if y != l.Y {
			c := l.Clone()
			c.Y = y
			out[i] = c
		}
	}
	return out
}
