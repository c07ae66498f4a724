package escpos

import "strings"

// Command is one entry of a command stream
type Command struct {
	Kind CommandKind
	// Data holds the wire bytes
	Data []byte
	// Text holds the UTF-8 payload of text commands
	Text string
}

// Stream is an ordered command list
type Stream []Command

// Bytes concatenates the wire bytes of every command
func (s Stream) Bytes() []byte {
	n := 0
	for _, c := range s {
		n += len(c.Data)
	}
	out := make([]byte, 0, n)
	for _, c := range s {
		out = append(out, c.Data...)
	}
	return out
}

// Text concatenates the text payloads
func (s Stream) Text() string {
	var sb strings.Builder
	for _, c := range s {
		if c.Kind == CmdText {
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

// CopyBytes returns the wire bytes of copy i of n, counting from zero.
// Only the last copy kicks the cash drawer.
func (s Stream) CopyBytes(i, n int) []byte {
	if i >= n-1 {
		return s.Bytes()
	}
	var out []byte
	for _, c := range s {
		if c.Kind != CmdDrawer {
			out = append(out, c.Data...)
		}
	}
	return out
}

// Option configures a Builder
type Option func(*Builder)

// WithCodePage selects the character table text is encoded to
func WithCodePage(n int) Option {
	return func(b *Builder) {
		b.encoder = NewEncoder(n)
	}
}

// Builder accumulates printer commands in call order. Commands are only
// ever appended. Invalid values are clamped to the nearest device mode so
// building never fails.
//
// A Builder is not safe for concurrent use; every render owns its own.
type Builder struct {
	commands []Command
	encoder  *Encoder
}

// NewBuilder creates an empty builder
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{encoder: NewEncoder(0)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) add(kind CommandKind, data ...byte) {
	b.commands = append(b.commands, Command{Kind: kind, Data: data})
}

// Initialize clears the printer buffer and modes (ESC @)
func (b *Builder) Initialize() {
	b.add(CmdInit, esc, '@')
}

// SetFont selects a font; FontA is the printer's normal mode
func (b *Builder) SetFont(f Font) {
	b.add(CmdFont, esc, 'M', byte(f.clamp()))
}

// SetStyle sets bold, underline and condensed print; the zero Style resets
func (b *Builder) SetStyle(s Style) {
	condensed := byte(dc2)
	if s.Condensed {
		condensed = si
	}
	b.add(CmdStyle,
		esc, 'E', boolByte(s.Bold),
		esc, '-', boolByte(s.Underline),
		condensed,
	)
}

// SetDoubleSize sets double width and height; false, false resets
func (b *Builder) SetDoubleSize(width, height bool) {
	var n byte
	if width {
		n |= 0x10
	}
	if height {
		n |= 0x01
	}
	b.add(CmdDoubleSize, gs, '!', n)
}

// SetAlign sets justification; AlignLeft resets
func (b *Builder) SetAlign(a Align) {
	b.add(CmdAlign, esc, 'a', byte(a.clamp()))
}

// Reset returns font, style, double size and alignment to normal, in
// that order
func (b *Builder) Reset() {
	b.SetFont(FontA)
	b.SetStyle(Style{})
	b.SetDoubleSize(false, false)
	b.SetAlign(AlignLeft)
}

// Text appends literal text encoded to the configured code page
func (b *Builder) Text(s string) {
	if s == "" {
		return
	}
	b.commands = append(b.commands, Command{Kind: CmdText, Data: b.encoder.Encode(s), Text: s})
}

// CanEncode reports whether s prints without substitutions in the
// configured code page
func (b *Builder) CanEncode(s string) bool {
	return b.encoder.CanEncode(s)
}

// Line appends s followed by a line feed
func (b *Builder) Line(s string) {
	b.Text(s + "\n")
}

// Feed prints the buffer and feeds n lines (ESC d n)
func (b *Builder) Feed(lines int) {
	b.add(CmdFeed, esc, 'd', clampByte(lines))
}

// Cut feeds to the cutter and performs a partial cut (GS V B 3)
func (b *Builder) Cut() {
	b.add(CmdCut, gs, 'V', 'B', 3)
}

// OpenDrawer pulses drawer kick pin 2 (ESC p 0 25 250)
func (b *Builder) OpenDrawer() {
	b.add(CmdDrawer, esc, 'p', 0, 25, 250)
}

// ApplyDeviceSettings selects the code page and replays the raw settings
func (b *Builder) ApplyDeviceSettings(s DeviceSettings) {
	data := make([]byte, 0, 3+len(s.Raw))
	data = append(data, esc, 't', clampByte(s.CodePage))
	data = append(data, s.Raw...)
	b.add(CmdSettings, data...)
}

// Image appends a raster bit image (GS v 0)
func (b *Builder) Image(r Raster) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	wb := r.WidthBytes()
	size := wb * r.Height
	data := make([]byte, 0, 8+size)
	data = append(data, gs, 'v', '0', 0,
		byte(wb), byte(wb>>8),
		byte(r.Height), byte(r.Height>>8),
	)
	body := make([]byte, size)
	copy(body, r.Data)
	data = append(data, body...)
	b.add(CmdImage, data...)
}

// Len returns the number of commands appended so far
func (b *Builder) Len() int {
	return len(b.commands)
}

// Stream returns a copy of the commands appended so far
func (b *Builder) Stream() Stream {
	out := make(Stream, len(b.commands))
	for i, c := range b.commands {
		out[i] = Command{Kind: c.Kind, Data: append([]byte(nil), c.Data...), Text: c.Text}
	}
	return out
}
