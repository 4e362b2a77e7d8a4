// Package typography validates and repairs the size relationship between a
// template's headline, subtext and call to action.
package typography

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
)

const (
	// HeadlineToSubtextRatio is the minimum headline:subtext size ratio.
	HeadlineToSubtextRatio = 3.5
	// SubtextToCTARatio derives subtext from CTA size in RecommendedSizes.
	SubtextToCTARatio = 1.25
	// MaxHeadlineSize caps the headline so it does not swallow the layout.
	MaxHeadlineSize = 61
)

// Roles holds the indices of the hierarchy layers, -1 when absent.
type Roles struct {
	Headline int
	Subtext  int
	CTA      int
}

// Locate finds the headline, subtext and CTA among textual layers. Without
// a headline-tagged layer the largest remaining text layer stands in.
func Locate(layers []layer.Layer) Roles {
	r := Roles{Headline: -1, Subtext: -1, CTA: -1}
	for i, l := range layers {
		if !l.IsTextual() || l.Text == nil {
			continue
		}
		switch l.EffectiveRole() {
		case layer.RoleHeadline:
			if r.Headline < 0 {
				r.Headline = i
			}
		case layer.RoleSubtext:
			if r.Subtext < 0 {
				r.Subtext = i
			}
		case layer.RoleCTA:
			if r.CTA < 0 {
				r.CTA = i
			}
		}
	}
	if r.Headline < 0 {
		best := 0.0
		for i, l := range layers {
			if !l.IsTextual() || l.Text == nil || i == r.Subtext || i == r.CTA {
				continue
			}
			if fs := l.FontSize(); fs > best {
				best, r.Headline = fs, i
			}
		}
	}
	return r
}

// Issue is a detected hierarchy violation.
type Issue struct {
	Type      string  `json:"type"`
	Layer     string  `json:"layer"`
	Message   string  `json:"message"`
	Suggested float64 `json:"suggested"`
}

// IssueType tags every hierarchy Issue.
const IssueType = "hierarchy_violation"

// Validate flags a headline not strictly larger than the subtext and a
// subtext smaller than the CTA.
func Validate(layers []layer.Layer) []Issue {
	r := Locate(layers)
	var issues []Issue
	if r.Headline >= 0 && r.Subtext >= 0 {
		h, s := layers[r.Headline], layers[r.Subtext]
		if h.FontSize() <= s.FontSize() {
			issues = append(issues, Issue{
				Type:      IssueType,
				Layer:     h.Name,
				Message:   fmt.Sprintf("Headline (%gpx) must be larger than subtext (%gpx)", h.FontSize(), s.FontSize()),
				Suggested: math.Trunc(s.FontSize() * HeadlineToSubtextRatio),
			})
		}
	}
	if r.Subtext >= 0 && r.CTA >= 0 {
		s, c := layers[r.Subtext], layers[r.CTA]
		if s.FontSize() < c.FontSize() {
			issues = append(issues, Issue{
				Type:      IssueType,
				Layer:     s.Name,
				Message:   fmt.Sprintf("Subtext (%gpx) should be at least equal to CTA (%gpx)", s.FontSize(), c.FontSize()),
				Suggested: c.FontSize(),
			})
		}
	}
	return issues
}

// Change records one font-size rewrite.
type Change struct {
	Layer string  `json:"layer"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// Fix returns a copy of layers whose headline is on the font scale, at
// least HeadlineToSubtextRatio times the subtext up to MaxHeadlineSize, and
// always strictly larger than the subtext. Subtext and CTA sizes are only
// snapped when off-scale; the subtext additionally steps down when it sits
// at the top of the scale.
func Fix(layers []layer.Layer) ([]layer.Layer, []Change) {
	r := Locate(layers)
	sizes := make(map[int]float64)

	sub := 0.0
	if r.Subtext >= 0 {
		sub = layers[r.Subtext].FontSize()
		if sub > 0 && !tokens.OnFontScale(sub) {
			sub = tokens.SnapFontSize(sub)
			sizes[r.Subtext] = sub
		}
	}
	if r.CTA >= 0 {
		if cta := layers[r.CTA].FontSize(); cta > 0 && !tokens.OnFontScale(cta) {
			sizes[r.CTA] = tokens.SnapFontSize(cta)
		}
	}

	if r.Headline >= 0 {
		head := layers[r.Headline].FontSize()
		target := tokens.SnapFontSize(math.Max(head, sub*HeadlineToSubtextRatio))
		target = math.Min(target, MaxHeadlineSize)
		if sub > 0 && target <= sub {
			if above, ok := tokens.StepAbove(sub); ok {
				target = above
			} else {
				top := tokens.FontScale[len(tokens.FontScale)-1]
				target = top
				sizes[r.Subtext] = tokens.FontScale[len(tokens.FontScale)-2]
			}
		}
		sizes[r.Headline] = target
	}

	var changes []Change
	out := layers
	for _, i := range slices.Sorted(maps.Keys(sizes)) {
		size := sizes[i]
		if layers[i].FontSize() == size {
			continue
		}
		if len(changes) == 0 {
			out = layer.CloneAll(layers)
		}
		changes = append(changes, Change{Layer: layers[i].Name, From: layers[i].FontSize(), To: size})
		out[i].Text.FontSize = size
	}
	if len(changes) > 0 {
		log.Debug().Interface("changes", changes).Msg("Typography hierarchy fixed")
	}
	return out, changes
}

// Sizes is a recommended headline/subtext/CTA size set.
type Sizes struct {
	CTA      float64 `json:"cta"`
	Subtext  float64 `json:"subtext"`
	Headline float64 `json:"headline"`
}

// RecommendedSizes derives subtext and headline from the CTA size.
func RecommendedSizes(cta float64) Sizes {
	cta = math.Max(1, cta)
	sub := math.Round(cta * SubtextToCTARatio)
	return Sizes{CTA: cta, Subtext: sub, Headline: math.Round(sub * HeadlineToSubtextRatio)}
}

// Weight is the share of visual weight each hierarchy level carries.
type Weight struct {
	Score    int     `json:"score"`
	Headline float64 `json:"headline"`
	Subtext  float64 `json:"subtext"`
	CTA      float64 `json:"cta"`
	Valid    bool    `json:"valid"`
}

// VisualWeight measures font-size share against a 70/20/10 target, scoring
// 50 for the headline, 30 for the subtext and 20 for the CTA when each is
// within tolerance.
func VisualWeight(layers []layer.Layer) Weight {
	r := Locate(layers)
	size := func(i int) float64 {
		if i < 0 {
			return 0
		}
		return layers[i].FontSize()
	}
	h, s, c := size(r.Headline), size(r.Subtext), size(r.CTA)
	total := h + s + c
	if total == 0 {
		return Weight{}
	}
	pct := func(v float64) float64 { return math.Round(v/total*1000) / 10 }
	w := Weight{Headline: pct(h), Subtext: pct(s), CTA: pct(c)}

	hv := math.Abs(w.Headline-70) <= 15
	sv := math.Abs(w.Subtext-20) <= 10
	cv := math.Abs(w.CTA-10) <= 5
	if hv {
		w.Score += 50
	}
	if sv {
		w.Score += 30
	}
	if cv {
		w.Score += 20
	}
	w.Valid = hv && sv && cv
	return w
}
