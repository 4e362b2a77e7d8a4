package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/critic"
	"github.com/fpang/ai-layout-corrector/internal/format"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/jsonutil"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
)

// layoutInput is the input of the critique and fix tools. Layers travel as
// JSON text so model output can be passed through unchanged.
type layoutInput struct {
	Layout   string `json:"layout" jsonschema:"the layer list as JSON: a bare array or {\"layers\": [...]}, optionally inside markdown fences"`
	Analysis string `json:"analysis,omitempty" jsonschema:"optional photo-analysis snapshot as JSON"`
	Format   string `json:"format,omitempty" jsonschema:"canvas format name such as square, portrait or story"`
}

type correctInput struct {
	Layout          string `json:"layout" jsonschema:"the layer list as JSON: a bare array or {\"layers\": [...]}, optionally inside markdown fences"`
	Analysis        string `json:"analysis,omitempty" jsonschema:"optional photo-analysis snapshot as JSON"`
	Format          string `json:"format,omitempty" jsonschema:"canvas format name such as square, portrait or story"`
	Typeset         bool   `json:"typeset,omitempty" jsonschema:"fix widows and orphans and fit text heights first"`
	Elevation       bool   `json:"elevation,omitempty" jsonschema:"apply elevation shadows after positioning"`
	TextOverlay     bool   `json:"text_overlay,omitempty" jsonschema:"add scrims under text that sits on a photo"`
	GradientOverlay bool   `json:"gradient_overlay,omitempty" jsonschema:"fade the photo edge nearest the text"`
	SoftGlow        int    `json:"soft_glow,omitempty" jsonschema:"soft glow intensity for call-to-action layers, 1 to 3; 0 for none"`
	SafeMargins     bool   `json:"safe_margins,omitempty" jsonschema:"keep text inside the 10% safe margins"`
}

type tools struct {
	brand brandkit.Kit
}

func newTools(kit brandkit.Kit) *tools {
	return &tools{brand: kit}
}

func (t *tools) register(s *mcp.Server) {
	mcp.AddTool(s, &mcp.Tool{
		Name:        "correct_layout",
		Description: "Snap a layout to the grid and design tokens, fix the type hierarchy and contrast, move text off busy photo regions and reposition it. Returns the corrected layers and every correction made.",
	}, t.correct)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "critique_layout",
		Description: "Score a layout on typography, composition, color, depth and image-text integration. A total of 75 or more is APPROVED.",
	}, t.critique)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "fix_layout",
		Description: "Critique a layout, apply the remedy for each issue found and critique the result again.",
	}, t.fix)
	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_formats",
		Description: "List the supported canvas formats with their sizes and target platforms.",
	}, t.formats)
}

// parsed is a decoded layoutInput.
type parsed struct {
	layers   []layer.Layer
	analysis *imageanalysis.Analysis
	canvas   format.Format
}

func (t *tools) parse(in layoutInput) (parsed, error) {
	layers, err := jsonutil.DecodeLayers(in.Layout)
	if err != nil {
		return parsed{}, err
	}
	var a *imageanalysis.Analysis
	if in.Analysis != "" {
		if a, err = imageanalysis.Parse([]byte(jsonutil.StripMarkdownFences(in.Analysis))); err != nil {
			return parsed{}, err
		}
	}
	name := in.Format
	if name == "" {
		name = t.brand.Format
	}
	f, ok := format.Lookup(name)
	if !ok {
		return parsed{}, fmt.Errorf("unknown format %q (known: %v)", name, format.Names())
	}
	return parsed{layers: layers, analysis: a, canvas: f}, nil
}

// textResult renders v as the tool's JSON text content.
func textResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}, nil, nil
}

func (t *tools) correct(ctx context.Context, req *mcp.CallToolRequest, in correctInput) (*mcp.CallToolResult, any, error) {
	p, err := t.parse(layoutInput{Layout: in.Layout, Analysis: in.Analysis, Format: in.Format})
	if err != nil {
		return nil, nil, err
	}
	if in.SoftGlow < 0 || in.SoftGlow > 3 {
		return nil, nil, fmt.Errorf("soft_glow must be 0 to 3, got %d", in.SoftGlow)
	}
	c := pipeline.New(pipeline.Options{
		Typeset:         in.Typeset,
		Elevation:       in.Elevation,
		TextOverlay:     in.TextOverlay,
		GradientOverlay: in.GradientOverlay,
		SoftGlow:        in.SoftGlow,
		SafeMargins:     in.SafeMargins,
		Background:      t.brand.Palette.BackgroundLight,
	})
	result := c.ReviewAndCorrect(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	log.Info().Str("tool", "correct_layout").Int("corrections", result.CorrectionsApplied).Msg("Tool call complete")
	return textResult(result)
}

func (t *tools) critique(ctx context.Context, req *mcp.CallToolRequest, in layoutInput) (*mcp.CallToolResult, any, error) {
	p, err := t.parse(in)
	if err != nil {
		return nil, nil, err
	}
	report := critic.Critique(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	log.Info().Str("tool", "critique_layout").Float64("score", report.TotalScore).Msg("Tool call complete")
	return textResult(report)
}

func (t *tools) fix(ctx context.Context, req *mcp.CallToolRequest, in layoutInput) (*mcp.CallToolResult, any, error) {
	p, err := t.parse(in)
	if err != nil {
		return nil, nil, err
	}
	before := critic.Critique(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	fixed, applied := critic.ApplyFixes(p.layers, before, p.canvas.Width, p.canvas.Height)
	after := critic.Critique(fixed, p.analysis, p.canvas.Width, p.canvas.Height)
	if applied == nil {
		applied = []critic.Code{}
	}
	return textResult(map[string]any{
		"layers":  fixed,
		"applied": applied,
		"before":  before.TotalScore,
		"after":   after,
	})
}

type formatsInput struct {
	Platform string `json:"platform,omitempty" jsonschema:"only formats targeting this platform"`
}

func (t *tools) formats(ctx context.Context, req *mcp.CallToolRequest, in formatsInput) (*mcp.CallToolResult, any, error) {
	if in.Platform != "" {
		return textResult(format.ForPlatform(in.Platform))
	}
	return textResult(format.All())
}
