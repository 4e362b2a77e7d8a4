package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/harmony"
)

func newPaletteCmd(rf *rootFlags) *cobra.Command {
	var base, scheme string
	var count int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "palette [brand.toml]",
		Short: "Show a brand kit's palette or generate a harmonious one",
		Long: `With a brand kit (argument or --brand), prints its palette, font pairing and
harmony score. With --base, generates a palette by rotating the base hue by
the scheme angle and validates it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if base != "" {
				colors := harmony.GeneratePalette(base, harmony.Scheme(scheme), count)
				report := harmony.ValidatePalette(colors)
				if asJSON {
					return writeJSON(w, map[string]any{"colors": colors, "harmony": report})
				}
				for _, c := range colors {
					fmt.Fprintln(w, c)
				}
				printHarmony(cmd, report)
				return nil
			}

			kit, err := rf.brand()
			if len(args) == 1 {
				kit, err = brandkit.Load(args[0])
			}
			if err != nil {
				return err
			}
			report := kit.Harmony()
			if asJSON {
				return writeJSON(w, map[string]any{"kit": kit, "fonts": kit.Fonts(), "harmony": report})
			}
			p := kit.Palette
			fmt.Fprintf(w, "Brand: %s (format %s)\n", kit.Name, kit.Format)
			for _, row := range [][2]string{
				{"primary", p.Primary}, {"secondary", p.Secondary}, {"accent", p.Accent},
				{"text_light", p.TextLight}, {"text_muted", p.TextMuted}, {"text_dark", p.TextDark},
				{"background_dark", p.BackgroundDark}, {"background_light", p.BackgroundLight},
			} {
				fmt.Fprintf(w, "  %-17s %s\n", row[0], row[1])
			}
			fonts := kit.Fonts()
			fmt.Fprintf(w, "Fonts: %s %s / %s %s\n", fonts.Heading, fonts.HeadingWeight, fonts.Body, fonts.BodyWeight)
			printHarmony(cmd, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Base color to generate a palette from")
	cmd.Flags().StringVar(&scheme, "scheme", string(harmony.Complementary), "Harmony scheme for --base")
	cmd.Flags().IntVar(&count, "count", 5, "Number of colors for --base")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printHarmony(cmd *cobra.Command, r harmony.Report) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Harmony: %s (score %d, valid %t)\n", r.HarmonyType, r.Score, r.Valid)
	for _, is := range r.Issues {
		fmt.Fprintf(w, "  - %s\n", is)
	}
}
