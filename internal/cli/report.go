package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fpang/ai-layout-corrector/internal/critic"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
)

const rule = "============================================"

func header(w io.Writer, title string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
}

// PrintCorrections writes a human-readable summary of a correction pass.
func PrintCorrections(w io.Writer, r pipeline.Result) {
	header(w, "Layout Corrections")
	fmt.Fprintf(w, "Layers: %d\n", len(r.Layers))
	fmt.Fprintf(w, "Corrections applied: %d\n", r.CorrectionsApplied)
	if len(r.Corrections) == 0 {
		fmt.Fprintln(w, "Layout already conforms. Nothing changed.")
		return
	}
	fmt.Fprintln(w, strings.Repeat("-", len(rule)))
	stage := ""
	for _, c := range r.Corrections {
		if c.Stage != stage {
			stage = c.Stage
			fmt.Fprintf(w, "[%s]\n", stage)
		}
		line := fmt.Sprintf("  %-20s %s", c.Type, c.Layer)
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		fmt.Fprintln(w, line)
	}
}

// PrintCritique writes the per-dimension scores, issues and suggestions.
func PrintCritique(w io.Writer, r critic.Report) {
	header(w, "Visual Critique")
	for _, d := range critic.Dimensions {
		fmt.Fprintf(w, "%-24s %5.1f\n", d, r.Scores[d])
	}
	fmt.Fprintln(w, strings.Repeat("-", len(rule)))
	fmt.Fprintf(w, "%-24s %5.1f  %s\n", "total", r.TotalScore, r.Verdict)
	if vw := r.VisualWeight; vw.Headline+vw.Subtext+vw.CTA > 0 {
		fmt.Fprintf(w, "visual weight            %.1f/%.1f/%.1f (target 70/20/10)\n", vw.Headline, vw.Subtext, vw.CTA)
	}
	if len(r.Issues) > 0 {
		fmt.Fprintln(w, "\nIssues:")
		for _, msg := range r.Messages() {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	if len(r.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}
