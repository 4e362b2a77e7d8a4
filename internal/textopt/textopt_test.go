package textopt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/fpang/ai-layout-corrector/internal/layer"
)

const nb = "\u00a0"

func TestPreventWidows(t *testing.T) {
	o := New()
	tests := []struct {
		in, want string
	}{
		{"Shop our summer sale", "Shop our summer" + nb + "sale"},
		{"Discover the new collection", "Discover the" + nb + "new collection"},
		{"Kawa z mlekiem na wynos", "Kawa z" + nb + "mlekiem na wynos"},
		{"  Big   savings  ", "Big savings"},
		{"Sale", "Sale"},
		{"", ""},
	}
	for _, tt := range tests {
		got := o.PreventWidows(tt.in)
		if got != tt.want {
			t.Errorf("PreventWidows(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := o.PreventWidows(got); again != got {
			t.Errorf("PreventWidows not idempotent on %q: %q", got, again)
		}
	}
}

func TestPreventWidows_LanguageSpecific(t *testing.T) {
	if got := New(English).PreventWidows("Kawa z mlekiem"); got != "Kawa z mlekiem" {
		t.Errorf("English optimizer glued a Polish connector: %q", got)
	}
	if got := New(Polish).PreventWidows("Made of leather"); got != "Made of leather" {
		t.Errorf("Polish optimizer glued an English connector: %q", got)
	}
}

func TestPreventOrphans(t *testing.T) {
	o := New()
	tests := []struct {
		in, want string
	}{
		{"A new season begins", "A" + nb + "new season begins"},
		{"The summer edit", "The" + nb + "summer edit"},
		{"Our new season", "Our new season"},
		{"A sale", "A sale"},
	}
	for _, tt := range tests {
		if got := o.PreventOrphans(tt.in); got != tt.want {
			t.Errorf("PreventOrphans(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptimizeText(t *testing.T) {
	r := New().OptimizeText("A new season begins", 300, 16)
	if !r.Modified || r.Original != "A new season begins" || r.EstimatedLines != 1 {
		t.Errorf("OptimizeText() = %+v", r)
	}
	if r := New().OptimizeText("Collection", 300, 16); r.Modified {
		t.Errorf("OptimizeText(single word) modified: %+v", r)
	}
}

func TestRisks(t *testing.T) {
	o := New()
	if !o.HasWidowRisk("Shop our summer sale", 10) {
		t.Error("HasWidowRisk(wrapping, short last word) = false")
	}
	if o.HasWidowRisk("Shop our summer sale", 40) {
		t.Error("HasWidowRisk(single line) = true")
	}
	if !o.HasOrphanRisk("A new season begins", 10) {
		t.Error("HasOrphanRisk(leading connector) = false")
	}
	if o.HasOrphanRisk("Our new season begins", 10) {
		t.Error("HasOrphanRisk(no connector) = true")
	}
}

func TestBalanceLines(t *testing.T) {
	if got := BalanceLines("Summer sale", 20); got.Count != 1 || !got.Balanced {
		t.Errorf("BalanceLines(short) = %+v", got)
	}

	got := BalanceLines("aaaa bbbb cccc dddd", 10)
	if diff := cmp.Diff([]string{"aaaa bbbb", "cccc dddd"}, got.Lines); diff != "" {
		t.Errorf("BalanceLines() lines mismatch (-want +got):\n%s", diff)
	}
	if !got.Balanced || got.Deviation != 0 {
		t.Errorf("BalanceLines() = %+v, want balanced", got)
	}

	got = BalanceLines("one two three four five six", 10)
	if diff := cmp.Diff([]string{"one two", "three", "four five", "six"}, got.Lines); diff != "" {
		t.Errorf("BalanceLines() lines mismatch (-want +got):\n%s", diff)
	}
	if got.Balanced {
		t.Errorf("BalanceLines() = %+v, want unbalanced", got)
	}

	got = BalanceLines("keep"+nb+"together and apart", 12)
	if got.Lines[0] != "keep"+nb+"together" {
		t.Errorf("NBSP pair split: %q", got.Lines)
	}

	if got := BalanceLines("anything", 0); got.Count < 1 {
		t.Errorf("BalanceLines(max 0) = %+v", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Hello, world", 20, "Hello, world"},
		{"Discover our exclusive summer collection today", 20, "Discover our..."},
		{"Hello, wonderful world", 10, "Hello..."},
		{"abcdefghijklmnop", 8, "abcde..."},
		{"abcdef", 3, "..."},
		{"abcdef", 2, ".."},
		{"abcdef", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}

	long := strings.Repeat("word, ", 40)
	for limit := 0; limit < 60; limit++ {
		if n := utf8.RuneCountInString(Truncate(long, limit)); n > limit {
			t.Fatalf("Truncate(_, %d) has %d runes", limit, n)
		}
	}
}

func TestEstimateCharsPerLine(t *testing.T) {
	tests := []struct {
		width, size float64
		want        int
	}{
		{1000, 20, 90},
		{5, 16, 1},
		{300, 0, 1},
		{0, 16, 1},
	}
	for _, tt := range tests {
		if got := EstimateCharsPerLine(tt.width, tt.size); got != tt.want {
			t.Errorf("EstimateCharsPerLine(%v, %v) = %d, want %d", tt.width, tt.size, got, tt.want)
		}
	}
}

func TestRequiredHeight(t *testing.T) {
	if got := RequiredHeight("Short", 300, 16, 1.5); got != 32 {
		t.Errorf("RequiredHeight(one line) = %v, want 32", got)
	}
	one := RequiredHeight("Short", 300, 16, 1.5)
	many := RequiredHeight(strings.Repeat("longer text ", 12), 300, 16, 1.5)
	if many <= one {
		t.Errorf("RequiredHeight(wrapping) = %v, want more than %v", many, one)
	}
}

func TestFitHeights(t *testing.T) {
	layers := []layer.Layer{
		{Name: "photo", Type: layer.TypeImage, Height: 10},
		{Name: "short_box", Type: layer.TypeText, Width: 300, Height: 10,
			Text: &layer.TextProps{Text: "Short", FontSize: 16, LineHeight: layer.Float(1.5)}},
		{Name: "tall_box", Type: layer.TypeText, Width: 300, Height: 200,
			Text: &layer.TextProps{Text: "Short", FontSize: 16, LineHeight: layer.Float(1.5)}},
		{Name: "empty", Type: layer.TypeText, Height: 1, Text: &layer.TextProps{}},
	}
	got, changes := FitHeights(layers)
	want := []HeightChange{{Layer: "short_box", From: 10, To: 32}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("FitHeights() changes mismatch (-want +got):\n%s", diff)
	}
	if got[2].Height != 200 || got[3].Height != 1 || got[0].Height != 10 {
		t.Errorf("heights = %v/%v/%v, want untouched", got[0].Height, got[2].Height, got[3].Height)
	}
	if layers[1].Height != 10 {
		t.Error("FitHeights mutated its input")
	}
}

func TestOptimizeLayers(t *testing.T) {
	layers := []layer.Layer{
		{Name: "photo", Type: layer.TypeImage},
		{Name: "headline", Type: layer.TypeText, Text: &layer.TextProps{Text: "Shop our summer sale"}},
		{Name: "cta", Type: layer.TypeTextbox, Text: &layer.TextProps{Text: "Buy"}},
		{Name: "blank", Type: layer.TypeText, Text: &layer.TextProps{Text: "  "}},
	}
	got, changed := New().OptimizeLayers(layers)
	if diff := cmp.Diff([]string{"headline"}, changed); diff != "" {
		t.Errorf("changed mismatch (-want +got):\n%s", diff)
	}
	if got[1].Text.Text != "Shop our summer"+nb+"sale" {
		t.Errorf("headline text = %q", got[1].Text.Text)
	}
	if layers[1].Text.Text != "Shop our summer sale" {
		t.Error("OptimizeLayers mutated its input")
	}
	if got[3].Text.Text != "  " {
		t.Errorf("blank text rewritten to %q", got[3].Text.Text)
	}
}
