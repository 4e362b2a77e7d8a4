package critic

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/contrast"
	"github.com/fpang/ai-layout-corrector/internal/elevation"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/overlay"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
	"github.com/fpang/ai-layout-corrector/internal/positioning"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
	"github.com/fpang/ai-layout-corrector/internal/typography"
)

// Code identifies the kind of an Issue.
type Code string

const (
	NoText              Code = "no_text"
	HeadlineTooSmall    Code = "headline_too_small"
	HierarchyInverted   Code = "hierarchy_inverted"
	OffScaleFont        Code = "off_scale_font"
	NoSizeVariety       Code = "no_size_variety"
	Misaligned          Code = "misaligned"
	MarginViolation     Code = "margin_violation"
	Crowded             Code = "crowded"
	ContrastViolation   Code = "contrast_violation"
	PaletteDiscord      Code = "palette_discord"
	NoAccent            Code = "no_accent"
	CTALacksElevation   Code = "cta_lacks_elevation"
	FlatDesign          Code = "flat_design"
	MissingOverlay      Code = "missing_overlay"
	FocalOverlap        Code = "focal_overlap"
	AnalysisUnavailable Code = "analysis_unavailable"
)

// Codes lists every issue code.
var Codes = []Code{
	NoText, HeadlineTooSmall, HierarchyInverted, OffScaleFont, NoSizeVariety,
	Misaligned, MarginViolation, Crowded,
	ContrastViolation, PaletteDiscord, NoAccent,
	CTALacksElevation, FlatDesign,
	MissingOverlay, FocalOverlap, AnalysisUnavailable,
}

// Suggestion returns the advice paired with an issue code.
func Suggestion(code Code) string {
	switch code {
	case NoText:
		return "Add a headline, a line of supporting text and a call to action"
	case HeadlineTooSmall:
		return fmt.Sprintf("Increase headline to %dpx or 49px for scroll-stopping impact", MinHeadlineSize)
	case HierarchyInverted:
		return fmt.Sprintf("Make the headline about %.1fx the subtext size", typography.HeadlineToSubtextRatio)
	case OffScaleFont:
		return "Use font sizes from the Major Third scale: 13, 16, 20, 25, 31, 39, 49, 61px"
	case NoSizeVariety:
		return "Give headline, subtext and call to action distinct sizes"
	case Misaligned:
		return "Align text to a thirds line, the center or the left margin"
	case MarginViolation:
		return fmt.Sprintf("Keep text at least %dpx from the canvas edges", positioning.Margin)
	case Crowded:
		return "Remove decorative elements or increase margins to 80-100px"
	case ContrastViolation:
		return "Add a dark background or overlay, or change the text color for 4.5:1 contrast"
	case PaletteDiscord:
		return "Build the palette around one harmony scheme with a single vibrant accent"
	case NoAccent:
		return "Add an accent element or a call to action in the brand accent color"
	case CTALacksElevation:
		s := elevation.ShadowFor(elevation.CTALevel)
		return fmt.Sprintf("Apply elevation level %d to CTA: shadowBlur=%g, shadowOffsetY=%g, shadowOpacity=%g",
			elevation.CTALevel, s.Blur, s.OffsetY, s.Opacity)
	case FlatDesign:
		return "Add subtle shadow to CTA button: blur 8px, opacity 12%"
	case MissingOverlay:
		return "Add dark overlay (opacity 0.5-0.6) between image and text"
	case FocalOverlap:
		return "Move text to safe zone or add semi-transparent overlay"
	case AnalysisUnavailable:
		return "Provide an image analysis so focal point overlap can be checked"
	}
	return ""
}

func suggestionsFor(issues []Issue) []string {
	out := []string{}
	for _, i := range issues {
		if s := Suggestion(i.Code); s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// rank orders remedies: overlays go in first so contrast is judged against
// them.
func rank(c Code) int {
	if c == MissingOverlay || c == FocalOverlap {
		return 0
	}
	return 1
}

// ApplyFixes applies the automatic remedy for every issue in r and returns
// the fixed copy of layers plus the codes remedied. Codes without a safe
// automatic remedy are skipped, as are remedies that change nothing.
func ApplyFixes(layers []layer.Layer, r Report, width, height float64) ([]layer.Layer, []Code) {
	issues := slices.Clone(r.Issues)
	slices.SortStableFunc(issues, func(a, b Issue) int { return cmp.Compare(rank(a.Code), rank(b.Code)) })

	out := layers
	var applied []Code
	mark := func(c Code) {
		if !slices.Contains(applied, c) {
			applied = append(applied, c)
		}
	}

	for _, is := range issues {
		switch is.Code {
		case HeadlineTooSmall:
			if i := slices.IndexFunc(out, func(l layer.Layer) bool { return l.Name == is.Subject && l.Text != nil }); i >= 0 &&
				out[i].FontSize() < MinHeadlineSize {
				out = slices.Clone(out)
				out[i] = out[i].Clone()
				out[i].Text.FontSize = MinHeadlineSize
				mark(is.Code)
			}
		case HierarchyInverted:
			if fixed, changes := typography.Fix(out); len(changes) > 0 {
				out = fixed
				mark(is.Code)
			}
		case OffScaleFont:
			if fixed := tokens.SnapLayers(out); !reflect.DeepEqual(fixed, out) {
				out = fixed
				mark(is.Code)
			}
		case CTALacksElevation:
			if i := slices.IndexFunc(out, func(l layer.Layer) bool { return l.Name == is.Subject }); i >= 0 {
				out = slices.Clone(out)
				out[i] = elevation.ApplyLevel(out[i], elevation.CTALevel)
				mark(is.Code)
			}
		case FlatDesign:
			if fixed := elevation.ApplyToLayers(out); !reflect.DeepEqual(fixed, out) {
				out = fixed
				mark(is.Code)
			}
		case ContrastViolation:
			if fixed, v := contrast.FixLayers(out, pipeline.Background(out, "")); len(v) > 0 {
				out = fixed
				mark(is.Code)
			}
		case MissingOverlay, FocalOverlap:
			var added []string
			out, added = overlay.AddTextOverlays(out, width, height)
			if len(added) > 0 {
				mark(is.Code)
			}
		case MarginViolation:
			if fixed, adj := positioning.Fix(out, width, height); len(adj) > 0 {
				out = fixed
				mark(is.Code)
			}
		case NoText, NoSizeVariety, Misaligned, Crowded, PaletteDiscord, NoAccent, AnalysisUnavailable:
			// Fixing these means changing content or intent.
		default:
			log.Warn().Str("code", string(is.Code)).Msg("Unknown critique issue code, skipping")
		}
	}

	if len(applied) > 0 {
		log.Info().Interface("applied", applied).Msg("Critique fixes applied")
	}
	return out, applied
}
