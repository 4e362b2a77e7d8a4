package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fpang/ai-layout-corrector/internal/critic"
	"github.com/fpang/ai-layout-corrector/internal/format"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/metrics"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
	"github.com/fpang/ai-layout-corrector/internal/textopt"
)

// prepared is a decoded layout request ready for the core.
type prepared struct {
	layers   []layer.Layer
	analysis *imageanalysis.Analysis
	format   format.Format
	canvas   layer.Canvas
}

func (s *Server) prepare(r *http.Request, req *layoutRequest) (prepared, error) {
	layers, err := req.layers()
	if err != nil {
		return prepared{}, err
	}
	f, c, err := s.canvas(req)
	if err != nil {
		return prepared{}, err
	}
	a, err := s.analysisFor(r, req)
	if err != nil {
		return prepared{}, err
	}
	return prepared{layers: layers, analysis: a, format: f, canvas: c}, nil
}

// fail maps decode errors to 400 and anything else to 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var re *requestError
	if errors.As(err, &re) {
		httpError(w, r, http.StatusBadRequest, re.msg)
		return
	}
	httpError(w, r, http.StatusInternalServerError, "internal error", err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "ai-layout-corrector",
		"brand":   s.brand.Name,
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"formats": format.All(),
		"default": s.brand.Format,
	})
}

// correctOptions mirrors pipeline.Options on the wire.
type correctOptions struct {
	Typeset         bool     `json:"typeset"`
	Languages       []string `json:"languages,omitempty"`
	Elevation       bool     `json:"elevation"`
	TextOverlay     bool     `json:"textOverlay"`
	GradientOverlay bool     `json:"gradientOverlay"`
	SoftGlow        int      `json:"softGlow,omitempty"`
	SafeMargins     bool     `json:"safeMargins"`
	Background      string   `json:"background,omitempty"`
}

func (o correctOptions) pipeline(brandBackground string) (pipeline.Options, error) {
	if o.SoftGlow < 0 || o.SoftGlow > 3 {
		return pipeline.Options{}, badRequest("softGlow must be 0 to 3, got %d", o.SoftGlow)
	}
	opts := pipeline.Options{
		Typeset:         o.Typeset,
		Elevation:       o.Elevation,
		TextOverlay:     o.TextOverlay,
		GradientOverlay: o.GradientOverlay,
		SoftGlow:        o.SoftGlow,
		SafeMargins:     o.SafeMargins,
		Background:      o.Background,
	}
	if opts.Background == "" {
		opts.Background = brandBackground
	}
	for _, l := range o.Languages {
		lang := textopt.Language(l)
		if lang != textopt.English && lang != textopt.Polish {
			return pipeline.Options{}, badRequest("unsupported language %q", l)
		}
		opts.Languages = append(opts.Languages, lang)
	}
	return opts, nil
}

type correctRequest struct {
	layoutRequest
	Options correctOptions `json:"options"`
	// Critique scores the corrected layout in the same call.
	Critique bool `json:"critique"`
}

type correctResponse struct {
	RequestID string `json:"request_id"`
	Format    string `json:"format"`
	pipeline.Result
	Critique *critic.Report `json:"critique,omitempty"`
}

// POST /api/layout/correct
func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.prepare(r, &req.layoutRequest)
	if err != nil {
		fail(w, r, err)
		return
	}
	opts, err := req.Options.pipeline(s.brand.Palette.BackgroundLight)
	if err != nil {
		fail(w, r, err)
		return
	}

	result := pipeline.New(opts).ReviewAndCorrect(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	resp := correctResponse{RequestID: RequestID(r.Context()), Format: p.format.Name, Result: result}
	rec := s.recorder("/api/layout/correct").
		Metric("CorrectionsApplied", float64(result.CorrectionsApplied), metrics.UnitCount)
	if req.Critique {
		c := critic.Critique(result.Layers, p.analysis, p.canvas.Width, p.canvas.Height)
		resp.Critique = &c
		rec.Metric("CritiqueScore", c.TotalScore, metrics.UnitNone)
	}
	rec.Property("requestId", resp.RequestID).Flush()

	zerolog.Ctx(r.Context()).Info().
		Int("layers", len(result.Layers)).
		Int("corrections", result.CorrectionsApplied).
		Str("format", p.format.Name).
		Msg("Layout corrected")
	respondJSON(w, http.StatusOK, resp)
}

type critiqueResponse struct {
	RequestID string `json:"request_id"`
	critic.Report
}

// POST /api/layout/critique
func (s *Server) handleCritique(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.prepare(r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	report := critic.Critique(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	s.recorder("/api/layout/critique").
		Metric("CritiqueScore", report.TotalScore, metrics.UnitNone).
		Property("verdict", string(report.Verdict)).
		Property("requestId", RequestID(r.Context())).
		Flush()
	respondJSON(w, http.StatusOK, critiqueResponse{RequestID: RequestID(r.Context()), Report: report})
}

type fixResponse struct {
	RequestID string        `json:"request_id"`
	Layers    []layer.Layer `json:"layers"`
	Applied   []critic.Code `json:"applied"`
	Before    critic.Report `json:"before"`
	After     critic.Report `json:"after"`
}

// POST /api/layout/fix
func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	p, err := s.prepare(r, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	before := critic.Critique(p.layers, p.analysis, p.canvas.Width, p.canvas.Height)
	fixed, applied := critic.ApplyFixes(p.layers, before, p.canvas.Width, p.canvas.Height)
	after := critic.Critique(fixed, p.analysis, p.canvas.Width, p.canvas.Height)
	if applied == nil {
		applied = []critic.Code{}
	}
	s.recorder("/api/layout/fix").
		Metric("CritiqueScore", after.TotalScore, metrics.UnitNone).
		Metric("FixesApplied", float64(len(applied)), metrics.UnitCount).
		Property("requestId", RequestID(r.Context())).
		Flush()
	respondJSON(w, http.StatusOK, fixResponse{
		RequestID: RequestID(r.Context()),
		Layers:    fixed,
		Applied:   applied,
		Before:    before,
		After:     after,
	})
}

type resizeRequest struct {
	layoutRequest
	To string `json:"to"`
}

type resizeResponse struct {
	RequestID string        `json:"request_id"`
	Format    string        `json:"format"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Layers    []layer.Layer `json:"layers"`

	Analysis *imageanalysis.Analysis `json:"analysis,omitempty"`
}

// POST /api/layout/resize
// Scales a layout authored on Format (or the brand format) to To and moves
// text out of the target's safe-zone bands. A supplied analysis comes back
// with its zones scaled the same way.
func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	layers, err := req.layers()
	if err != nil {
		fail(w, r, err)
		return
	}
	_, from, err := s.canvas(&req.layoutRequest)
	if err != nil {
		fail(w, r, err)
		return
	}
	to, ok := format.Lookup(req.To)
	if !ok {
		fail(w, r, badRequest("unknown target format %q (known: %v)", req.To, format.Names()))
		return
	}
	analysis, err := s.analysisFor(r, &req.layoutRequest)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := format.AdjustForSafeZone(format.ScaleLayers(layers, from, to.Name), to.Name)
	respondJSON(w, http.StatusOK, resizeResponse{
		RequestID: RequestID(r.Context()),
		Format:    to.Name,
		Width:     to.Width,
		Height:    to.Height,
		Layers:    out,
		Analysis: analysis.Rescale(func(z layer.Rect) layer.Rect {
			return format.ScaleZone(z, from, to.Name)
		}),
	})
}
