// Package cli holds the input loading and report printing shared by the
// layoutctl commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/imageanalysis"
	"github.com/fpang/ai-layout-corrector/internal/jsonutil"
	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// ReadInput returns the contents of path, or of stdin when path is "" or "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// LoadLayers reads a layer list from path. Model output wrapped in prose or
// code fences is accepted.
func LoadLayers(path string, stdin io.Reader) ([]layer.Layer, error) {
	data, err := ReadInput(path, stdin)
	if err != nil {
		return nil, err
	}
	layers, err := jsonutil.DecodeLayers(string(data))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("layers", len(layers)).Msg("Layers loaded")
	return layers, nil
}

// LoadAnalysis reads an analysis snapshot from path. An empty path means no
// analysis and returns nil.
func LoadAnalysis(path string) (*imageanalysis.Analysis, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis: %w", err)
	}
	return imageanalysis.Parse(data)
}
