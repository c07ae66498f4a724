package escpos

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// codePages maps ESC t table numbers to their character maps
var codePages = map[int]*charmap.Charmap{
	0:  charmap.CodePage437,
	2:  charmap.CodePage850,
	3:  charmap.CodePage860,
	4:  charmap.CodePage863,
	5:  charmap.CodePage865,
	16: charmap.Windows1252,
	17: charmap.CodePage866,
	18: charmap.CodePage852,
	19: charmap.CodePage858,
}

// SupportedCodePage reports whether text can be encoded for the table
func SupportedCodePage(n int) bool {
	_, ok := codePages[n]
	return ok
}

// Encoder converts UTF-8 text to the bytes of one printer code page.
// Runes missing from the table are printed as '?'.
type Encoder struct {
	cm *charmap.Charmap
}

// NewEncoder returns the encoder for an ESC t table number; unknown
// tables fall back to PC437
func NewEncoder(codePage int) *Encoder {
	cm, ok := codePages[codePage]
	if !ok {
		cm = charmap.CodePage437
	}
	return &Encoder{cm: cm}
}

// Encode converts s
func (e *Encoder) Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if b, ok := e.cm.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// CanEncode reports whether every rune of s exists in the table
func (e *Encoder) CanEncode(s string) bool {
	for _, r := range s {
		if r < utf8.RuneSelf {
			continue
		}
		if _, ok := e.cm.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// Decode converts printer bytes back to UTF-8, for previews
func (e *Encoder) Decode(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		if b < utf8.RuneSelf {
			sb.WriteByte(b)
			continue
		}
		sb.WriteRune(e.cm.DecodeByte(b))
	}
	return sb.String()
}
