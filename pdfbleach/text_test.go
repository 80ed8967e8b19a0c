package pdfbleach

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestLiteralText(t *testing.T) {
	// WHAT: String and hex literals decode to readable UTF-8.
	// WHY: Script payloads are reported as text, not PDF syntax.
	cases := []struct {
		in   types.Object
		want string
	}{
		{types.StringLiteral(`app.alert\(1\)`), "app.alert(1)"},
		{types.StringLiteral(`a\nb`), "a\nb"},
		{types.StringLiteral(`\101\102`), "AB"},
		{types.HexLiteral("414243"), "ABC"},
		{types.HexLiteral("FEFF006800E9"), "hé"},
		{types.HexLiteral("636166E9"), "café"},
	}
	for _, c := range cases {
		if got := literalText(c.in); got != c.want {
			t.Errorf("literalText(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTextString(t *testing.T) {
	// WHAT: Script stream bytes in UTF-16BE, UTF-8 or Windows-1252 become UTF-8.
	cases := []struct {
		in   []byte
		want string
	}{
		{[]byte{0xFE, 0xFF, 0x00, 0x68, 0x00, 0xE9}, "hé"},
		{[]byte{0x63, 0x61, 0x66, 0xE9}, "café"},
		{[]byte("déjà"), "déjà"},
		{append([]byte{0xEF, 0xBB, 0xBF}, "bom"...), "bom"},
		{[]byte{0x93, 0x78, 0x94}, "“x”"},
	}
	for _, c := range cases {
		if got := textString(c.in); got != c.want {
			t.Errorf("textString(% x) = %q, want %q", c.in, got, c.want)
		}
	}
}
