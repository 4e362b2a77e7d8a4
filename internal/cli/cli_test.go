package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpang/ai-layout-corrector/internal/critic"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
)

const layout = "```json\n" + `[{"name": "headline", "type": "text", "x": 80, "y": 120, "width": 920, "height": 120,
	"properties": {"text": "Autumn", "fontSize": 49, "fill": "#1A1A2E"}}]` + "\n```"

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(layout), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		path  string
		stdin string
	}{
		{"file", path, ""},
		{"stdin dash", "-", layout},
		{"stdin empty path", "", layout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers, err := LoadLayers(tt.path, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("LoadLayers() error = %v", err)
			}
			if len(layers) != 1 || layers[0].FontSize() != 49 {
				t.Errorf("layers = %+v", layers)
			}
		})
	}
	if _, err := LoadLayers(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Error("LoadLayers(missing) error = nil")
	}
}

func TestLoadAnalysis(t *testing.T) {
	if a, err := LoadAnalysis(""); a != nil || err != nil {
		t.Errorf("LoadAnalysis(\"\") = %v, %v", a, err)
	}
	path := filepath.Join(t.TempDir(), "analysis.json")
	os.WriteFile(path, []byte(`{"success": true, "suggested_text_position": "top"}`), 0o644)
	a, err := LoadAnalysis(path)
	if err != nil || !a.Usable() || a.SuggestedTextPosition != "top" {
		t.Errorf("LoadAnalysis() = %+v, %v", a, err)
	}
}

func TestPrintCorrections(t *testing.T) {
	var buf bytes.Buffer
	PrintCorrections(&buf, pipeline.Result{
		Layers:             make([]layer.Layer, 3),
		CorrectionsApplied: 2,
		Corrections: []pipeline.Correction{
			{Stage: "token_snap", Type: "token_snap", Layer: "headline", Detail: "fontSize 30 -> 31"},
			{Stage: "contrast", Type: "contrast_violation", Layer: "subtext"},
		},
	})
	out := buf.String()
	for _, want := range []string{"Corrections applied: 2", "[token_snap]", "[contrast]", "fontSize 30 -> 31"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintCorrections(&buf, pipeline.Result{Corrections: []pipeline.Correction{}})
	if !strings.Contains(buf.String(), "Nothing changed") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestPrintCritique(t *testing.T) {
	r := critic.Critique(nil, nil, 1080, 1080)
	var buf bytes.Buffer
	PrintCritique(&buf, r)
	out := buf.String()
	for _, d := range critic.Dimensions {
		if !strings.Contains(out, string(d)) {
			t.Errorf("output missing dimension %s", d)
		}
	}
	if !strings.Contains(out, string(r.Verdict)) || !strings.Contains(out, "Issues:") {
		t.Errorf("output:\n%s", out)
	}
	if strings.Contains(out, "visual weight") {
		t.Errorf("visual weight printed for a layout without text:\n%s", out)
	}

	layers := []layer.Layer{
		{Name: "headline", Type: layer.TypeText, Width: 900, Height: 120, Opacity: 1, Text: &layer.TextProps{FontSize: 61}},
		{Name: "subtext", Type: layer.TypeText, Y: 200, Width: 900, Height: 60, Opacity: 1, Text: &layer.TextProps{FontSize: 20}},
	}
	buf.Reset()
	PrintCritique(&buf, critic.Critique(layers, nil, 1080, 1080))
	if !strings.Contains(buf.String(), "visual weight            75.3/24.7/0.0") {
		t.Errorf("output missing visual weight:\n%s", buf.String())
	}
}
