package tokens

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
)

// Palette is a brand color set. Empty fields fall back to the defaults.
type Palette struct {
	Primary         string `toml:"primary" json:"primary"`
	Secondary       string `toml:"secondary" json:"secondary"`
	Accent          string `toml:"accent" json:"accent"`
	TextLight       string `toml:"text_light" json:"text_light"`
	TextMuted       string `toml:"text_muted" json:"text_muted"`
	TextDark        string `toml:"text_dark" json:"text_dark"`
	BackgroundDark  string `toml:"background_dark" json:"background_dark"`
	BackgroundLight string `toml:"background_light" json:"background_light"`
}

// DefaultPalette is used when no brand is supplied.
func DefaultPalette() Palette {
	return Palette{
		Primary:         "#1E3A5F",
		Secondary:       "#0F2544",
		Accent:          "#D4AF37",
		TextLight:       "#FFFFFF",
		TextMuted:       "#8BA3BE",
		TextDark:        "#1A1A2E",
		BackgroundDark:  "#1A1A2E",
		BackgroundLight: "#FFFFFF",
	}
}

// WithDefaults fills empty fields from DefaultPalette. A missing muted text
// color is derived from the brand primary rather than copied.
func (p Palette) WithDefaults() Palette {
	d := DefaultPalette()
	out := Palette{
		Primary:         pick(p.Primary, d.Primary),
		Secondary:       pick(p.Secondary, d.Secondary),
		Accent:          pick(p.Accent, d.Accent),
		TextLight:       pick(p.TextLight, d.TextLight),
		TextDark:        pick(p.TextDark, d.TextDark),
		BackgroundDark:  pick(p.BackgroundDark, d.BackgroundDark),
		BackgroundLight: pick(p.BackgroundLight, d.BackgroundLight),
	}
	out.TextMuted = p.TextMuted
	if out.TextMuted == "" {
		if p.Primary == "" {
			out.TextMuted = d.TextMuted
		} else {
			out.TextMuted = SubtextColor(out.Primary)
		}
	}
	return out
}

// Colors lists the palette in a stable order.
func (p Palette) Colors() []string {
	return []string{p.Primary, p.Secondary, p.Accent, p.TextLight, p.TextMuted, p.TextDark, p.BackgroundDark, p.BackgroundLight}
}

func pick(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// SubtextColor derives a muted text color from a background: a 70% tint
// toward white on dark backgrounds, a 30% shade toward black on light ones.
func SubtextColor(background string) string {
	r, g, b := hexcolor.RGB255(hexcolor.MustParse(background))
	rf, gf, bf := float64(r), float64(g), float64(b)
	lum := (0.299*rf + 0.587*gf + 0.114*bf) / 255

	const factor = 0.7
	if lum < 0.5 {
		rf += factor * (255 - rf)
		gf += factor * (255 - gf)
		bf += factor * (255 - bf)
	} else {
		rf *= factor
		gf *= factor
		bf *= factor
	}
	c := colorful.Color{R: math.Trunc(rf) / 255, G: math.Trunc(gf) / 255, B: math.Trunc(bf) / 255}
	return hexcolor.Format(c)
}

// OverlayColor renders background as an rgba() string at the given opacity.
func OverlayColor(background string, opacity float64) string {
	r, g, b := hexcolor.RGB255(hexcolor.MustParse(background))
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, strconv.FormatFloat(opacity, 'f', -1, 64))
}

// Margins are per-edge safe margins in pixels.
type Margins struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// SafeMargins keeps 10% of each dimension clear per edge, never less than
// MinimumMargin.
func SafeMargins(width, height float64) Margins {
	h := math.Max(MinimumMargin, math.Trunc(width*SafeMarginRatio))
	v := math.Max(MinimumMargin, math.Trunc(height*SafeMarginRatio))
	return Margins{Left: h, Right: h, Top: v, Bottom: v}
}

// UsableArea returns the canvas region inside SafeMargins.
func UsableArea(width, height float64) (x, y, w, h float64) {
	m := SafeMargins(width, height)
	return m.Left, m.Top, width - m.Left - m.Right, height - m.Top - m.Bottom
}

// FontPairing is a heading/body typeface pairing for an industry.
type FontPairing struct {
	Heading       string  `json:"heading"`
	HeadingWeight string  `json:"heading_weight"`
	HeadingStyle  string  `json:"heading_style,omitempty"`
	Body          string  `json:"body"`
	BodyWeight    string  `json:"body_weight"`
	ScaleRatio    float64 `json:"scale_ratio"`
}

var industryFonts = map[string]FontPairing{
	"medical":    {Heading: "Poppins", HeadingWeight: "600", Body: "Open Sans", BodyWeight: "400", ScaleRatio: 1.25},
	"beauty":     {Heading: "Playfair Display", HeadingWeight: "500", Body: "Montserrat", BodyWeight: "300", ScaleRatio: 1.333},
	"gastro":     {Heading: "Lora", HeadingWeight: "500", HeadingStyle: "italic", Body: "Montserrat", BodyWeight: "600", ScaleRatio: 1.5},
	"fitness":    {Heading: "Oswald", HeadingWeight: "700", Body: "Roboto", BodyWeight: "400", ScaleRatio: 1.414},
	"technology": {Heading: "Inter", HeadingWeight: "700", Body: "Inter", BodyWeight: "400", ScaleRatio: 1.25},
	"luxury":     {Heading: "Cormorant Garamond", HeadingWeight: "600", Body: "Montserrat", BodyWeight: "300", ScaleRatio: 1.5},
	"default":    {Heading: "Montserrat", HeadingWeight: "700", Body: "Montserrat", BodyWeight: "400", ScaleRatio: 1.25},
}

// FontsForIndustry returns the pairing for industry, or the default pairing.
func FontsForIndustry(industry string) FontPairing {
	if f, ok := industryFonts[strings.ToLower(industry)]; ok {
		return f
	}
	return industryFonts["default"]
}
