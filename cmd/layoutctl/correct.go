package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/cli"
	"github.com/fpang/ai-layout-corrector/internal/critic"
	"github.com/fpang/ai-layout-corrector/internal/pipeline"
	"github.com/fpang/ai-layout-corrector/internal/textopt"
)

type correctFlags struct {
	analysis    string
	typeset     bool
	languages   []string
	elevation   bool
	overlay     bool
	gradient    bool
	glow        int
	safeMargins bool
	background  string
	critique    bool
	json        bool
	out         string
}

func newCorrectCmd(rf *rootFlags) *cobra.Command {
	f := &correctFlags{}
	cmd := &cobra.Command{
		Use:   "correct [layout.json]",
		Short: "Run the self-correction pass over a layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrect(cmd, rf, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.analysis, "analysis", "a", "", "Photo-analysis snapshot JSON")
	cmd.Flags().BoolVar(&f.typeset, "typeset", false, "Fix widows and orphans and fit text box heights first")
	cmd.Flags().StringSliceVar(&f.languages, "lang", nil, "Connector languages for --typeset (en, pl)")
	cmd.Flags().BoolVar(&f.elevation, "elevation", false, "Apply elevation shadows after positioning")
	cmd.Flags().BoolVar(&f.overlay, "overlay", false, "Add scrims under text that sits on a photo")
	cmd.Flags().BoolVar(&f.gradient, "gradient", false, "Fade the photo edge nearest the text")
	cmd.Flags().IntVar(&f.glow, "glow", 0, "Give CTAs a soft glow of this intensity (1-3, 0 for none)")
	cmd.Flags().BoolVar(&f.safeMargins, "safe-margins", false, "Keep text inside the 10% safe margins")
	cmd.Flags().StringVar(&f.background, "background", "", "Background assumed when the layout has none (default: brand background)")
	cmd.Flags().BoolVar(&f.critique, "critique", false, "Critique the corrected layout")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the result as JSON")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the corrected layers to this file")
	return cmd
}

func runCorrect(cmd *cobra.Command, rf *rootFlags, f *correctFlags, args []string) error {
	if f.glow < 0 || f.glow > 3 {
		return fmt.Errorf("--glow must be 0 to 3, got %d", f.glow)
	}
	kit, err := rf.brand()
	if err != nil {
		return err
	}
	canvas, err := rf.canvas(kit)
	if err != nil {
		return err
	}
	layers, err := cli.LoadLayers(argOrStdin(args), cmd.InOrStdin())
	if err != nil {
		return err
	}
	analysis, err := cli.LoadAnalysis(f.analysis)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Typeset:         f.typeset,
		Elevation:       f.elevation,
		TextOverlay:     f.overlay,
		GradientOverlay: f.gradient,
		SoftGlow:        f.glow,
		SafeMargins:     f.safeMargins,
		Background:      f.background,
	}
	if opts.Background == "" {
		opts.Background = kit.Palette.BackgroundLight
	}
	for _, l := range f.languages {
		opts.Languages = append(opts.Languages, textopt.Language(l))
	}

	result := pipeline.New(opts).ReviewAndCorrect(layers, analysis, canvas.Width, canvas.Height)
	if f.out != "" {
		if err := writeLayers(f.out, result.Layers); err != nil {
			return err
		}
	}

	var report *critic.Report
	if f.critique {
		r := critic.Critique(result.Layers, analysis, canvas.Width, canvas.Height)
		report = &r
	}

	w := cmd.OutOrStdout()
	if f.json {
		return writeJSON(w, struct {
			pipeline.Result
			Critique *critic.Report `json:"critique,omitempty"`
		}{result, report})
	}
	cli.PrintCorrections(w, result)
	if report != nil {
		fmt.Fprintln(w)
		cli.PrintCritique(w, *report)
	}
	return nil
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
