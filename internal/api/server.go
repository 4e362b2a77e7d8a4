// Package api serves the correction pipeline and the visual critic over
// HTTP. The same handler runs behind API Gateway in Lambda and under a plain
// net/http server for local use.
//
// Endpoints:
//
//	GET  /api/health           health check (no origin verification)
//	GET  /api/formats          canvas format registry
//	POST /api/layout/correct   run the self-correction pipeline
//	POST /api/layout/critique  score a layout
//	POST /api/layout/fix       critique, apply remedies, critique again
//	POST /api/layout/resize    rescale a layout to another format
package api

import (
	"io"
	"net/http"
	"os"

	"github.com/klauspost/compress/gzhttp"

	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/metrics"
	"github.com/fpang/ai-layout-corrector/internal/s3util"
)

// Config wires a Server.
type Config struct {
	// Analysis fetches snapshots referenced by analysisKey. Nil disables
	// analysisKey lookups.
	Analysis       s3util.ObjectGetter
	AnalysisBucket string
	// OriginVerifySecret, when set, is required in the x-origin-verify header.
	OriginVerifySecret string
	// Brand supplies the default format and background.
	Brand brandkit.Kit
	// MetricsOutput receives EMF lines. Nil means stdout.
	MetricsOutput io.Writer
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	analysis           s3util.ObjectGetter
	bucket             string
	originVerifySecret string
	brand              brandkit.Kit
	metricsOut         io.Writer
}

// New returns a Server for cfg. A zero Brand falls back to the default kit.
func New(cfg Config) *Server {
	brand := cfg.Brand
	if brand.Name == "" {
		brand = brandkit.Default()
	}
	out := cfg.MetricsOutput
	if out == nil {
		out = os.Stdout
	}
	return &Server{
		analysis:           cfg.Analysis,
		bucket:             cfg.AnalysisBucket,
		originVerifySecret: cfg.OriginVerifySecret,
		brand:              brand,
		metricsOut:         out,
	}
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/formats", s.handleFormats)
	mux.HandleFunc("POST /api/layout/correct", s.handleCorrect)
	mux.HandleFunc("POST /api/layout/critique", s.handleCritique)
	mux.HandleFunc("POST /api/layout/fix", s.handleFix)
	mux.HandleFunc("POST /api/layout/resize", s.handleResize)

	return gzhttp.GzipHandler(withRequestID(s.withMetrics(s.withOriginVerify(mux))))
}

func (s *Server) recorder(endpoint string) *metrics.Recorder {
	return metrics.New(metrics.Namespace).Output(s.metricsOut).Dimension("Endpoint", endpoint)
}
