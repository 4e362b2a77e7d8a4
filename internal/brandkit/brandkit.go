// Package brandkit loads brand kits from TOML files. A kit names the brand
// palette, its industry (which selects the font pairing) and the default
// canvas format.
package brandkit

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/format"
	"github.com/fpang/ai-layout-corrector/internal/harmony"
	"github.com/fpang/ai-layout-corrector/internal/hexcolor"
	"github.com/fpang/ai-layout-corrector/internal/tokens"
)

// Kit is one brand kit.
type Kit struct {
	Name     string         `toml:"name" json:"name"`
	Industry string         `toml:"industry" json:"industry,omitempty"`
	Format   string         `toml:"format" json:"format,omitempty"`
	Palette  tokens.Palette `toml:"palette" json:"palette"`
}

// Default is the kit used when none is configured.
func Default() Kit {
	return Kit{Name: "default", Format: format.Default, Palette: tokens.DefaultPalette()}
}

// Load reads and decodes the kit at path.
func Load(path string) (Kit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Kit{}, fmt.Errorf("read brand kit: %w", err)
	}
	kit, err := Decode(data)
	if err != nil {
		return Kit{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("brand", kit.Name).Msg("Brand kit loaded")
	return kit, nil
}

// Decode parses a TOML kit. Unknown keys and unparseable colors are errors.
// Colors are normalized to upper-case #RRGGBB and empty palette fields are
// filled from the default palette.
func Decode(data []byte) (Kit, error) {
	var kit Kit
	md, err := toml.Decode(string(data), &kit)
	if err != nil {
		return Kit{}, fmt.Errorf("decode brand kit: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Kit{}, fmt.Errorf("decode brand kit: unknown keys %s", strings.Join(keys, ", "))
	}

	p := &kit.Palette
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"primary", &p.Primary},
		{"secondary", &p.Secondary},
		{"accent", &p.Accent},
		{"text_light", &p.TextLight},
		{"text_muted", &p.TextMuted},
		{"text_dark", &p.TextDark},
		{"background_dark", &p.BackgroundDark},
		{"background_light", &p.BackgroundLight},
	} {
		if *f.v == "" {
			continue
		}
		if _, ok := hexcolor.Parse(*f.v); !ok {
			return Kit{}, fmt.Errorf("decode brand kit: palette.%s: invalid color %q", f.name, *f.v)
		}
		*f.v = hexcolor.Normalize(*f.v)
	}
	kit.Palette = kit.Palette.WithDefaults()

	if kit.Format == "" {
		kit.Format = format.Default
	} else if _, ok := format.Lookup(kit.Format); !ok {
		return Kit{}, fmt.Errorf("decode brand kit: unknown format %q", kit.Format)
	}
	return kit, nil
}

// Fonts returns the heading/body pairing for the kit's industry.
func (k Kit) Fonts() tokens.FontPairing {
	return tokens.FontsForIndustry(k.Industry)
}

// Harmony scores the kit's brand colors. Text and background neutrals are
// left out since they carry no hue.
func (k Kit) Harmony() harmony.Report {
	return harmony.ValidatePalette([]string{k.Palette.Primary, k.Palette.Secondary, k.Palette.Accent})
}
