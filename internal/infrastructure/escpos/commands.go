// Package escpos builds ESC/POS command streams for thermal receipt printers.
package escpos

// Control bytes
const (
	esc = 0x1b
	gs  = 0x1d
	lf  = 0x0a
	si  = 0x0f // compressed print on
	dc2 = 0x12 // compressed print off
)

// Font selects one of the printer's character fonts
type Font uint8

const (
	FontA Font = iota
	FontB
	FontC
)

func (f Font) clamp() Font {
	if f > FontC {
		return FontC
	}
	return f
}

// String returns the font letter
func (f Font) String() string {
	return string(rune('A' + f.clamp()))
}

// Align is the horizontal justification of text
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) clamp() Align {
	if a > AlignRight {
		return AlignRight
	}
	return a
}

// String returns LEFT, CENTER or RIGHT
func (a Align) String() string {
	switch a.clamp() {
	case AlignCenter:
		return "CENTER"
	case AlignRight:
		return "RIGHT"
	default:
		return "LEFT"
	}
}

// Style holds the emphasis attributes. The zero value is normal print.
type Style struct {
	Bold      bool
	Underline bool
	Condensed bool
}

// DeviceSettings are replayed by ApplyDeviceSettings
type DeviceSettings struct {
	// CodePage is the ESC t character table number
	CodePage int
	// Raw is sent verbatim after the code page selection
	Raw []byte
}

// CommandKind identifies a command in a stream
type CommandKind uint8

const (
	CmdInit CommandKind = iota + 1
	CmdFont
	CmdStyle
	CmdDoubleSize
	CmdAlign
	CmdText
	CmdFeed
	CmdCut
	CmdDrawer
	CmdSettings
	CmdImage
)

var commandNames = map[CommandKind]string{
	CmdInit:       "init",
	CmdFont:       "font",
	CmdStyle:      "style",
	CmdDoubleSize: "double",
	CmdAlign:      "align",
	CmdText:       "text",
	CmdFeed:       "feed",
	CmdCut:        "cut",
	CmdDrawer:     "drawer",
	CmdSettings:   "settings",
	CmdImage:      "image",
}

// String returns the command name
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func clampByte(n int) byte {
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return byte(n)
}
