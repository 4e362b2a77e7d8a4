// Package textopt handles typographic edge cases in layer text: widow and
// orphan prevention with non-breaking spaces, line balancing, truncation and
// the text-box height a string needs at a given size.
package textopt

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

// NBSP is the non-breaking space used to glue words together.
const NBSP = '\u00A0'

const (
	// MinWidowLength is the longest final word treated as a potential widow.
	MinWidowLength = 4
	// MaxOrphanLength is the longest leading connector glued forward.
	MaxOrphanLength = 3
	// MaxSingleLineChars is the length beyond which a headline wraps.
	MaxSingleLineChars = 35
	// Ellipsis terminates truncated text.
	Ellipsis = "..."
	// charWidthRatio approximates a sans-serif glyph's advance as a share
	// of the font size.
	charWidthRatio = 0.55
	// balanceTolerance is the line-length deviation, as a share of the
	// average, still considered balanced.
	balanceTolerance = 0.3
)

// Language selects a connector word set.
type Language string

const (
	English Language = "en"
	Polish  Language = "pl"
)

var connectors = map[Language][]string{
	English: {"a", "i", "an", "the", "of", "to", "in", "on", "at", "by", "or", "is"},
	Polish:  {"a", "i", "o", "u", "w", "z"},
}

// Optimizer applies widow and orphan rules using the connector words of its
// languages.
type Optimizer struct {
	connectors map[string]bool
}

// New returns an Optimizer for langs, or for English and Polish when none
// are given.
func New(langs ...Language) *Optimizer {
	if len(langs) == 0 {
		langs = []Language{English, Polish}
	}
	o := &Optimizer{connectors: make(map[string]bool)}
	for _, lang := range langs {
		for _, w := range connectors[lang] {
			o.connectors[w] = true
		}
	}
	return o
}

// IsConnector reports whether w is a preposition or article of one of the
// optimizer's languages.
func (o *Optimizer) IsConnector(w string) bool {
	return o.connectors[strings.ToLower(w)]
}

// words splits on whitespace other than NBSP, so glued pairs stay whole.
func words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r != NBSP && unicode.IsSpace(r)
	})
}

func join(ws []string, glue []bool) string {
	var b strings.Builder
	for i, w := range ws {
		if i > 0 {
			if glue[i-1] {
				b.WriteRune(NBSP)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w)
	}
	return b.String()
}

// PreventWidows glues a short final word to the one before it and every
// inner connector word to the word after it. Runs of whitespace collapse to
// single spaces.
func (o *Optimizer) PreventWidows(text string) string {
	ws := words(strings.TrimSpace(text))
	if len(ws) < 2 {
		return strings.TrimSpace(text)
	}
	glue := make([]bool, len(ws)-1)
	if utf8.RuneCountInString(ws[len(ws)-1]) <= MinWidowLength {
		glue[len(glue)-1] = true
	}
	for i := 1; i < len(ws)-1; i++ {
		if o.IsConnector(ws[i]) {
			glue[i] = true
		}
	}
	return join(ws, glue)
}

// PreventOrphans glues a short leading connector to the second word so it
// never sits alone on the first line. Text under three words is unchanged.
func (o *Optimizer) PreventOrphans(text string) string {
	text = strings.TrimSpace(text)
	ws := words(text)
	if len(ws) < 3 {
		return text
	}
	if utf8.RuneCountInString(ws[0]) > MaxOrphanLength || !o.IsConnector(ws[0]) {
		return text
	}
	i := strings.IndexFunc(text, func(r rune) bool { return r != NBSP && unicode.IsSpace(r) })
	_, size := utf8.DecodeRuneInString(text[i:])
	return text[:i] + string(NBSP) + text[i+size:]
}

// Result is the outcome of OptimizeText.
type Result struct {
	Text           string `json:"text"`
	Original       string `json:"original"`
	Modified       bool   `json:"modified"`
	EstimatedLines int    `json:"estimated_lines"`
	Balanced       bool   `json:"balanced"`
}

// OptimizeText applies widow then orphan prevention and estimates how the
// result wraps in a box maxWidth pixels wide.
func (o *Optimizer) OptimizeText(text string, maxWidth, fontSize float64) Result {
	out := o.PreventOrphans(o.PreventWidows(text))
	lines := BalanceLines(out, EstimateCharsPerLine(maxWidth, fontSize))
	return Result{
		Text:           out,
		Original:       text,
		Modified:       out != text,
		EstimatedLines: lines.Count,
		Balanced:       lines.Balanced,
	}
}

// HasWidowRisk reports whether text wraps and ends in a short word.
func (o *Optimizer) HasWidowRisk(text string, charsPerLine int) bool {
	ws := words(strings.TrimSpace(text))
	return len(ws) >= 2 &&
		utf8.RuneCountInString(ws[len(ws)-1]) <= MinWidowLength &&
		utf8.RuneCountInString(text) > charsPerLine
}

// HasOrphanRisk reports whether text wraps and opens with a short connector.
func (o *Optimizer) HasOrphanRisk(text string, charsPerLine int) bool {
	ws := words(strings.TrimSpace(text))
	return len(ws) >= 3 &&
		utf8.RuneCountInString(ws[0]) <= MaxOrphanLength &&
		o.IsConnector(ws[0]) &&
		utf8.RuneCountInString(text) > charsPerLine
}

// OptimizeLayers returns a copy of layers with widow and orphan prevention
// applied to every non-empty text or textbox layer, plus the names of the
// layers whose text changed.
func (o *Optimizer) OptimizeLayers(layers []layer.Layer) ([]layer.Layer, []string) {
	out := make([]layer.Layer, len(layers))
	var changed []string
	for i, l := range layers {
		out[i] = l
		if !l.IsTextual() || l.Text == nil || strings.TrimSpace(l.Text.Text) == "" {
			continue
		}
		text := o.PreventOrphans(o.PreventWidows(l.Text.Text))
		if text == l.Text.Text {
			continue
		}
		c := l.Clone()
		c.Text.Text = text
		out[i] = c
		changed = append(changed, l.Name)
		log.Debug().Str("layer", l.Name).Str("original", l.Text.Text).Str("optimized", text).Msg("Text optimized for typography")
	}
	return out, changed
}

// Lines is a greedy wrap of text into near-equal lines.
type Lines struct {
	Count     int      `json:"line_count"`
	Balanced  bool     `json:"balanced"`
	Lines     []string `json:"lines"`
	Deviation float64  `json:"deviation"`
}

// BalanceLines wraps text so each line approaches the same length rather
// than filling the first lines to maxChars. Text within maxChars is one
// line.
func BalanceLines(text string, maxChars int) Lines {
	maxChars = max(1, maxChars)
	n := utf8.RuneCountInString(text)
	if n <= maxChars {
		return Lines{Count: 1, Balanced: true, Lines: []string{text}}
	}

	count := int(math.Ceil(float64(n) / float64(maxChars)))
	ideal := int(math.Ceil(float64(n) / float64(count)))

	var lines []string
	var cur strings.Builder
	curLen := 0
	for _, w := range words(text) {
		wl := utf8.RuneCountInString(w)
		if curLen > 0 && curLen+1+wl > ideal {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += wl
	}
	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	if len(lines) == 0 {
		return Lines{Count: 1, Balanced: true, Lines: []string{text}}
	}

	total := 0
	for _, l := range lines {
		total += utf8.RuneCountInString(l)
	}
	avg := float64(total) / float64(len(lines))
	dev := 0.0
	for _, l := range lines {
		dev = math.Max(dev, math.Abs(float64(utf8.RuneCountInString(l))-avg))
	}
	return Lines{
		Count:     len(lines),
		Balanced:  dev <= avg*balanceTolerance,
		Lines:     lines,
		Deviation: dev,
	}
}

// Truncate shortens text to at most maxChars runes, breaking at a word
// boundary in the second half when one exists, dropping trailing
// punctuation and appending Ellipsis.
func Truncate(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	if maxChars <= len(Ellipsis) {
		return Ellipsis[:max(0, maxChars)]
	}

	cut := runes[:maxChars-len(Ellipsis)]
	for i := len(cut) - 1; i >= 0; i-- {
		if unicode.IsSpace(cut[i]) {
			if float64(i) > float64(maxChars)*0.5 {
				cut = cut[:i]
			}
			break
		}
	}
	s := strings.TrimRightFunc(string(cut), func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".,;:!?-", r)
	})
	return s + Ellipsis
}

// EstimateCharsPerLine approximates how many characters of a sans-serif
// face at fontSize fit in width pixels. The result is at least 1.
func EstimateCharsPerLine(width, fontSize float64) int {
	if fontSize <= 0 || width <= 0 {
		return 1
	}
	return max(1, int(math.Floor(width/(fontSize*charWidthRatio))))
}

// Defaults applied when a text layer omits the measurement inputs.
const (
	DefaultFontSize   = 16
	DefaultWidth      = 300
	DefaultLineHeight = 1.2
)

// RequiredHeight is the box height text needs: its wrapped line count times
// the pixel line height, plus half the font size of padding.
func RequiredHeight(text string, width, fontSize, lineHeight float64) float64 {
	lines := BalanceLines(text, EstimateCharsPerLine(width, fontSize)).Count
	return math.Ceil(float64(lines)*fontSize*lineHeight) + math.Trunc(fontSize*0.5)
}

// HeightChange records a text box grown to fit its content.
type HeightChange struct {
	Layer string  `json:"layer"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
}

// FitHeights grows every non-empty text box that is shorter than its
// content requires. Boxes are never shrunk.
func FitHeights(layers []layer.Layer) ([]layer.Layer, []HeightChange) {
	out := make([]layer.Layer, len(layers))
	var changes []HeightChange
	for i, l := range layers {
		out[i] = l
		if !l.IsTextual() || l.Text == nil || strings.TrimSpace(l.Text.Text) == "" {
			continue
		}
		fs := l.Text.FontSize
		if fs <= 0 {
			fs = DefaultFontSize
		}
		w := l.Width
		if w <= 0 {
			w = DefaultWidth
		}
		lh := DefaultLineHeight
		if l.Text.LineHeight != nil && *l.Text.LineHeight > 0 {
			lh = *l.Text.LineHeight
		}
		need := RequiredHeight(l.Text.Text, w, fs, lh)
		if need <= l.Height {
			continue
		}
		c := l.Clone()
		c.Height = need
		out[i] = c
		changes = append(changes, HeightChange{Layer: l.Name, From: l.Height, To: need})
		log.Debug().Str("layer", l.Name).Float64("oldHeight", l.Height).Float64("newHeight", need).Msg("Text layer height adjusted")
	}
	return out, changes
}
