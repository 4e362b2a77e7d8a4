package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/cli"
	"github.com/fpang/ai-layout-corrector/internal/critic"
)

type critiqueFlags struct {
	analysis string
	fix      bool
	json     bool
	out      string
}

func newCritiqueCmd(rf *rootFlags) *cobra.Command {
	f := &critiqueFlags{}
	cmd := &cobra.Command{
		Use:   "critique [layout.json]",
		Short: "Score a layout on five visual dimensions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCritique(cmd, rf, f, args)
		},
	}
	cmd.Flags().StringVarP(&f.analysis, "analysis", "a", "", "Photo-analysis snapshot JSON")
	cmd.Flags().BoolVar(&f.fix, "fix", false, "Apply the remedy for each issue and critique again")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the report as JSON")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the fixed layers to this file (with --fix)")
	return cmd
}

func runCritique(cmd *cobra.Command, rf *rootFlags, f *critiqueFlags, args []string) error {
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

	w := cmd.OutOrStdout()
	report := critic.Critique(layers, analysis, canvas.Width, canvas.Height)
	if !f.fix {
		if f.json {
			return writeJSON(w, report)
		}
		cli.PrintCritique(w, report)
		return nil
	}

	fixed, applied := critic.ApplyFixes(layers, report, canvas.Width, canvas.Height)
	after := critic.Critique(fixed, analysis, canvas.Width, canvas.Height)
	if f.out != "" {
		if err := writeLayers(f.out, fixed); err != nil {
			return err
		}
	}
	if f.json {
		return writeJSON(w, map[string]any{
			"before":  report,
			"applied": applied,
			"after":   after,
			"layers":  fixed,
		})
	}
	cli.PrintCritique(w, report)
	fmt.Fprintf(w, "\nApplied %d fixes: %v\n\n", len(applied), applied)
	cli.PrintCritique(w, after)
	return nil
}
