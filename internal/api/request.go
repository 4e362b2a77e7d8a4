package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fpang/ai-layout-corrector/internal/format"
	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/jsonutil"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/s3util"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 5 << 20

// layoutRequest is the body shared by the layout endpoints.
type layoutRequest struct {
	Layers []layer.Layer `json:"layers"`
	// Raw is unparsed model output holding the layers, used when Layers is absent.
	Raw         string                  `json:"raw,omitempty"`
	Analysis    *imageanalysis.Analysis `json:"analysis,omitempty"`
	AnalysisKey string                  `json:"analysisKey,omitempty"`
	Format      string                  `json:"format,omitempty"`
	Width       float64                 `json:"width,omitempty"`
	Height      float64                 `json:"height,omitempty"`
}

// requestError is a decode failure safe to show the client.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// decodeBody reads a JSON body of at most maxBodyBytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest("request body exceeds %d bytes", maxBodyBytes)
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// layers returns the request's layers, decoding Raw when no array was sent.
func (req *layoutRequest) layers() ([]layer.Layer, error) {
	if req.Layers != nil {
		return req.Layers, nil
	}
	if req.Raw == "" {
		return nil, badRequest("layers or raw is required")
	}
	layers, err := jsonutil.DecodeLayers(req.Raw)
	if err != nil {
		return nil, badRequest("%v", err)
	}
	return layers, nil
}

// canvas resolves the request's format, falling back to the brand format.
// Explicit width and height override the format's canvas.
func (s *Server) canvas(req *layoutRequest) (format.Format, layer.Canvas, error) {
	name := req.Format
	if name == "" {
		name = s.brand.Format
	}
	f, ok := format.Lookup(name)
	if !ok {
		return format.Format{}, layer.Canvas{}, badRequest("unknown format %q", name)
	}
	c := f.Canvas()
	if req.Width > 0 && req.Height > 0 {
		c = layer.Canvas{Width: req.Width, Height: req.Height}
	}
	return f, c, nil
}

// analysisFor returns the inline snapshot, or fetches the one named by
// AnalysisKey. Fetch failures degrade to no analysis.
func (s *Server) analysisFor(r *http.Request, req *layoutRequest) (*imageanalysis.Analysis, error) {
	if req.Analysis != nil || req.AnalysisKey == "" {
		return req.Analysis, nil
	}
	key := req.AnalysisKey
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return nil, badRequest("invalid analysisKey")
	}
	logger := zerolog.Ctx(r.Context())
	if s.analysis == nil {
		logger.Warn().Str("key", key).Msg("analysisKey given but no analysis bucket configured")
		return nil, nil
	}
	a, err := s3util.LoadAnalysis(r.Context(), s.analysis, s.bucket, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Analysis unavailable, continuing without it")
		return nil, nil
	}
	return a, nil
}
