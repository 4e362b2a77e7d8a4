package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/format"
)

func newFormatsCmd() *cobra.Command {
	var platform, industry string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List canvas formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := format.All()
			if platform != "" {
				formats = format.ForPlatform(platform)
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, formats)
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tRATIO\tPLATFORMS")
			for _, f := range formats {
				fmt.Fprintf(tw, "%s\t%gx%g\t%s\t%s\n", f.Name, f.Width, f.Height, f.Ratio, strings.Join(f.Platforms, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if platform != "" {
				fmt.Fprintf(w, "\nRecommended for %s: %s\n", platform, format.Recommended(platform, industry))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Only formats targeting this platform")
	cmd.Flags().StringVar(&industry, "industry", "", "Industry used for the recommendation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
