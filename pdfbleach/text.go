// CLAUDE:SUMMARY Decodes PDF string objects and script stream bytes into Go strings for threat payloads.
package pdfbleach

import (
	"bytes"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// literalText decodes a string or hex literal. Escapes and UTF-16BE are
// resolved by pdfcpu; on a decode failure the PDF syntax form is kept.
func literalText(o types.Object) string {
	s, err := types.StringOrHexLiteral(o)
	if err != nil {
		return o.PDFString()
	}
	return windows1252(*s)
}

// textString converts raw bytes (a decoded script stream) into UTF-8.
// UTF-16BE and UTF-8 are recognised by their byte order mark.
func textString(b []byte) string {
	if types.IsUTF16BE(b) {
		if s, err := types.DecodeUTF16String(string(b)); err == nil {
			return s
		}
	}
	return windows1252(string(bytes.TrimPrefix(b, bomUTF8)))
}

// windows1252 reads s as Windows-1252 when it is not valid UTF-8.
func windows1252(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := charmap.Windows1252.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}
