package hexcolor

import "testing"

func TestParseAndFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"#d4af37", "#D4AF37", true},
		{"D4AF37", "#D4AF37", true},
		{"#fff", "#FFFFFF", true},
		{" #000000 ", "#000000", true},
		{"transparent", "", false},
		{"rgba(0,0,0,0.5)", "", false},
		{"#12345", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, ok := Parse(tt.in)
		if ok != tt.wantOK {
			t.Errorf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && Format(c) != tt.want {
			t.Errorf("Format(Parse(%q)) = %s, want %s", tt.in, Format(c), tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("#abc"); got != "#AABBCC" {
		t.Errorf("Normalize(#abc) = %s", got)
	}
	if got := Normalize("transparent"); got != "transparent" {
		t.Errorf("Normalize(transparent) = %s", got)
	}
}

func TestIsOpaque(t *testing.T) {
	for in, want := range map[string]bool{
		"#FFFFFF":            true,
		"rgba(0,0,0,1)":      true,
		"rgba(0,0,0,0)":      false,
		"rgba(0, 0, 0, 0)":   false,
		"RGBA(9, 9, 9, 0.0)": false,
		"rgba(0, 0, 0, 0.4)": true,
		"rgb(0 0 0 / 0%)":    false,
		"hsla(0, 0%, 0%, 0)": false,
		"rgb(10, 20, 30)":    true,
		"#00000000":          false,
		"#000000FF":          true,
		"#0000":              false,
		"#D4AF37":            true,
		"transparent":        false,
		"None":               false,
		"":                   false,
	} {
		if got := IsOpaque(in); got != want {
			t.Errorf("IsOpaque(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRGB255(t *testing.T) {
	r, g, b := RGB255(MustParse("#D4AF37"))
	if r != 0xD4 || g != 0xAF || b != 0x37 {
		t.Errorf("RGB255 = %d,%d,%d", r, g, b)
	}
	if Format(MustParse("not a color")) != "#000000" {
		t.Error("MustParse fallback is not black")
	}
}
