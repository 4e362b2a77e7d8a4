// Package imageanalysis consumes a photo-analysis snapshot produced outside
// the service and moves text off the photo's busy regions into its safe
// zones. The snapshot is never computed or refreshed here.
package imageanalysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// Point is a position in canvas pixels or, when normalized, in [0,1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FocalPoint is where the photo draws the eye.
type FocalPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Normalized Point   `json:"normalized"`
}

// Brightness holds per-quadrant luminance in [0,1].
type Brightness struct {
	TopLeft     float64 `json:"top-left"`
	TopRight    float64 `json:"top-right"`
	BottomLeft  float64 `json:"bottom-left"`
	BottomRight float64 `json:"bottom-right"`
	Overall     float64 `json:"overall"`
	IsDark      bool    `json:"is_dark"`
}

// Zone is a labelled canvas rectangle. Safe zones carry a recommended text
// color, busy zones a reason.
type Zone struct {
	Position             string  `json:"position"`
	X                    float64 `json:"x"`
	Y                    float64 `json:"y"`
	Width                float64 `json:"width"`
	Height               float64 `json:"height"`
	RecommendedTextColor string  `json:"recommended_text_color,omitempty"`
	Reason               string  `json:"reason,omitempty"`
}

// Rect returns the zone's bounds.
func (z Zone) Rect() layer.Rect {
	return layer.Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
}

// Analysis is one photo-analysis snapshot.
type Analysis struct {
	Success               bool        `json:"success"`
	FocalPoint            *FocalPoint `json:"focal_point,omitempty"`
	Brightness            *Brightness `json:"brightness,omitempty"`
	SuggestedTextPosition string      `json:"suggested_text_position"`
	SafeZones             []Zone      `json:"safe_zones"`
	BusyZones             []Zone      `json:"busy_zones"`
}

// Parse decodes a snapshot.
func Parse(data []byte) (*Analysis, error) {
	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse image analysis: %w", err)
	}
	return &a, nil
}

// Rescale returns a copy of a with every zone and the focal point passed
// through fn. Normalized coordinates are canvas-independent and kept.
func (a *Analysis) Rescale(fn func(layer.Rect) layer.Rect) *Analysis {
	if a == nil {
		return nil
	}
	out := *a
	out.SafeZones = rescaleZones(a.SafeZones, fn)
	out.BusyZones = rescaleZones(a.BusyZones, fn)
	if a.FocalPoint != nil {
		p := fn(layer.Rect{X: a.FocalPoint.X, Y: a.FocalPoint.Y})
		out.FocalPoint = &FocalPoint{X: p.X, Y: p.Y, Normalized: a.FocalPoint.Normalized}
	}
	return &out
}

func rescaleZones(zones []Zone, fn func(layer.Rect) layer.Rect) []Zone {
	if zones == nil {
		return nil
	}
	out := make([]Zone, len(zones))
	for i, z := range zones {
		r := fn(z.Rect())
		z.X, z.Y, z.Width, z.Height = r.X, r.Y, r.Width, r.Height
		out[i] = z
	}
	return out
}

// Usable reports whether a is present and was produced successfully.
// Everything in this package treats an unusable snapshot as absent.
func (a *Analysis) Usable() bool {
	return a != nil && a.Success
}

// Default returns the snapshot used when analysis is unavailable: a
// centered focal point, a bottom safe zone and a center busy zone. It is
// marked unsuccessful, so Adjust ignores it.
func Default() *Analysis {
	return &Analysis{
		Success:    false,
		FocalPoint: &FocalPoint{X: 540, Y: 540, Normalized: Point{X: 0.5, Y: 0.5}},
		Brightness: &Brightness{
			TopLeft: 0.5, TopRight: 0.5, BottomLeft: 0.5, BottomRight: 0.5, Overall: 0.5,
		},
		SuggestedTextPosition: "bottom",
		SafeZones: []Zone{{
			Position: "bottom", X: 40, Y: 780, Width: 1000, Height: 260,
			RecommendedTextColor: "#FFFFFF",
		}},
		BusyZones: []Zone{{
			Position: "center", X: 270, Y: 270, Width: 540, Height: 540,
			Reason: "Default busy zone (center)",
		}},
	}
}

// SafeZoneFor returns the first safe zone whose position contains
// position, else the first safe zone.
func (a *Analysis) SafeZoneFor(position string) (Zone, bool) {
	if a == nil || len(a.SafeZones) == 0 {
		return Zone{}, false
	}
	for _, z := range a.SafeZones {
		if position != "" && strings.Contains(z.Position, position) {
			return z, true
		}
	}
	return a.SafeZones[0], true
}

// RecommendedTextColor returns the text color suggested for the safe zone
// at position, defaulting to white.
func (a *Analysis) RecommendedTextColor(position string) string {
	if a != nil {
		for _, z := range a.SafeZones {
			if strings.Contains(z.Position, position) && z.RecommendedTextColor != "" {
				return z.RecommendedTextColor
			}
		}
	}
	return "#FFFFFF"
}

// BusyZoneAt returns the first busy zone r intersects.
func (a *Analysis) BusyZoneAt(r layer.Rect) (Zone, bool) {
	if a == nil {
		return Zone{}, false
	}
	for _, z := range a.BusyZones {
		if r.Intersects(z.Rect()) {
			return z, true
		}
	}
	return Zone{}, false
}

// FullOverlayRatio is the busy share of the photo above which Adjust
// leaves text in place, relying on an overlay for legibility.
const FullOverlayRatio = 0.7

// BusyCoverage returns the summed area of the busy zones as a share of
// photo's area. Overlapping zones count twice.
func (a *Analysis) BusyCoverage(photo layer.Rect) float64 {
	if a == nil || photo.Area() <= 0 {
		return 0
	}
	busy := 0.0
	for _, z := range a.BusyZones {
		busy += z.Rect().Area()
	}
	return busy / photo.Area()
}

// PhotoIndex returns the index of the template's photo: the first image
// layer, else the first layer named like a photo, else -1.
func PhotoIndex(layers []layer.Layer) int {
	for i, l := range layers {
		if l.Type == layer.TypeImage {
			return i
		}
	}
	for i, l := range layers {
		if l.NameHas("photo") {
			return i
		}
	}
	return -1
}

// Move records a layer relocated into a safe zone.
type Move struct {
	Layer string     `json:"layer"`
	Zone  string     `json:"zone"`
	From  layer.Rect `json:"from"`
	To    layer.Rect `json:"to"`
}

// Adjust relocates every text layer that overlaps the photo and a busy zone
// into the safe zone matching the suggested text position. Layers sent to
// the same zone stack downward from its top edge in their original order,
// each starting at the previous one's bottom, centered and no wider than
// the zone. Without a usable snapshot, a photo or a safe zone, layers are
// returned unchanged, as they are when busy zones cover more than
// FullOverlayRatio of the photo.
func Adjust(layers []layer.Layer, a *Analysis) ([]layer.Layer, []Move) {
	if !a.Usable() {
		return layers, nil
	}
	photo := PhotoIndex(layers)
	if photo < 0 {
		log.Debug().Msg("No photo layer found, skipping image analysis adjustments")
		return layers, nil
	}
	zone, ok := a.SafeZoneFor(a.SuggestedTextPosition)
	if !ok {
		return layers, nil
	}

	area := layers[photo].Rect()
	if cov := a.BusyCoverage(area); cov > FullOverlayRatio {
		log.Info().Float64("busyCoverage", cov).Msg("Busy zones cover most of the photo, leaving text in place")
		return layers, nil
	}
	nextY := map[string]float64{}
	out := make([]layer.Layer, len(layers))
	var moves []Move
	for i, l := range layers {
		out[i] = l
		if l.Type != layer.TypeText || l.Hidden {
			continue
		}
		r := l.Rect()
		if !r.Intersects(area) {
			continue
		}
		if _, busy := a.BusyZoneAt(r); !busy {
			continue
		}

		y, stacked := nextY[zone.Position]
		if !stacked {
			y = zone.Y
		}
		c := l.Clone()
		c.Width = min(l.Width, zone.Width)
		c.X = zone.X + float64(int((zone.Width-c.Width)/2))
		c.Y = y
		nextY[zone.Position] = c.Bottom()
		out[i] = c

		moves = append(moves, Move{Layer: l.Name, Zone: zone.Position, From: r, To: c.Rect()})
		log.Debug().
			Str("layer", l.Name).
			Str("zone", zone.Position).
			Float64("x", c.X).
			Float64("y", c.Y).
			Msg("Moved layer to avoid busy zone")
	}
	return out, moves
}
