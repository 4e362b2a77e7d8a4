// Command layoutctl corrects and critiques layouts from the command line and
// can serve the layout API locally.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/format"
	"github.com/fpang/ai-layout-corrector/internal/layer"
	"github.com/fpang/ai-layout-corrector/internal/logging"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	brandPath string
	format    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	root := &cobra.Command{
		Use:   "layoutctl",
		Short: "Correct and critique generated social-media layouts",
		Long: `layoutctl runs the deterministic self-correction pass and the visual critic
over a layer list proposed by a generating model.

Input is a JSON layer array or a {"layers": [...]} document, optionally
wrapped in markdown fences or prose. Pass "-" or no file to read stdin.

Examples:
  layoutctl correct layout.json --analysis photo-analysis.json
  layoutctl correct layout.json --typeset --overlay --critique
  layoutctl critique layout.json --fix --out fixed.json
  layoutctl formats --platform tiktok
  layoutctl palette brand.toml
  layoutctl serve --addr :8080`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init()
			log.Logger = log.With().Str("runId", uuid.NewString()).Logger()
		},
	}
	root.PersistentFlags().StringVar(&rf.brandPath, "brand", logging.EnvOrDefault("LAYOUT_BRAND_KIT", ""), "Brand kit TOML file")
	root.PersistentFlags().StringVarP(&rf.format, "format", "f", logging.EnvOrDefault("LAYOUT_CANVAS_FORMAT", ""), "Canvas format (default: the brand kit's format)")

	root.AddCommand(
		newCorrectCmd(rf),
		newCritiqueCmd(rf),
		newFormatsCmd(),
		newPaletteCmd(rf),
		newServeCmd(rf),
	)
	return root
}

// brand loads the configured kit, or the default kit when none is set.
func (rf *rootFlags) brand() (brandkit.Kit, error) {
	if rf.brandPath == "" {
		return brandkit.Default(), nil
	}
	return brandkit.Load(rf.brandPath)
}

// canvas resolves --format, falling back to the brand format.
func (rf *rootFlags) canvas(kit brandkit.Kit) (format.Format, error) {
	name := rf.format
	if name == "" {
		name = kit.Format
	}
	f, ok := format.Lookup(name)
	if !ok {
		return format.Format{}, fmt.Errorf("unknown format %q (known: %v)", name, format.Names())
	}
	return f, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeLayers saves layers to path as an indented JSON array.
func writeLayers(path string, layers []layer.Layer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := writeJSON(f, layers); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("layers", len(layers)).Msg("Layers written")
	return nil
}
