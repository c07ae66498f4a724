package escpos

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Display widths are measured without East Asian ambiguous widening so
// box drawing characters count as one column regardless of locale.
var widthCond = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Width returns the display width of s in printer columns
func Width(s string) int {
	return widthCond.StringWidth(s)
}

// Truncate cuts s to at most width columns
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if Width(s) <= width {
		return s
	}
	return widthCond.Truncate(s, width, "")
}

// fill builds exactly n columns out of pad. When a wide pad character
// cannot fill the last columns they are filled with spaces.
func fill(n int, pad string) string {
	if n <= 0 {
		return ""
	}
	pw := Width(pad)
	if pw <= 0 {
		pad, pw = " ", 1
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat(pad, n/pw))
	if rest := n % pw; rest > 0 {
		tail := widthCond.Truncate(pad, rest, "")
		sb.WriteString(tail)
		sb.WriteString(strings.Repeat(" ", rest-Width(tail)))
	}
	return sb.String()
}

// Repeat returns pad repeated to exactly width columns
func Repeat(pad string, width int) string {
	return fill(width, pad)
}

// Columns lays out left and right on one line of width columns, the right
// text flush right. The left text is truncated to keep one separating space.
func Columns(left, right string, width int) string {
	right = Truncate(right, width)
	room := width - Width(right) - 1
	if room < 0 {
		room = 0
	}
	left = Truncate(left, room)
	return left + fill(width-Width(left)-Width(right), " ") + right
}

// Wrap splits s into lines of at most width columns, breaking on spaces
// where possible
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(s) {
		ww := Width(word)
		for ww > width {
			if lineWidth > 0 {
				flush()
			}
			head := Truncate(word, width)
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = Width(word)
		}
		if ww == 0 {
			continue
		}
		switch {
		case lineWidth == 0:
		case lineWidth+1+ww <= width:
			line.WriteByte(' ')
			lineWidth++
		default:
			flush()
		}
		line.WriteString(word)
		lineWidth += ww
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
