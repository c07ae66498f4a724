package steps

import (
	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
)

// DeviceSettings maps the printer record to the builder's settings block
func DeviceSettings(p printing.Printer) escpos.DeviceSettings {
	return escpos.DeviceSettings{CodePage: p.CodePage, Raw: p.Settings}
}

// Linebreak appends a single line feed
func Linebreak(_ *printing.DocumentContext, b *escpos.Builder) error {
	b.Text("\n")
	return nil
}

// DrawLine prints a divider made of the printer's table split character,
// exactly as wide as a condensed line. No line feed follows it.
func DrawLine(doc *printing.DocumentContext, b *escpos.Builder) error {
	p := doc.Printer.WithDefaults()
	b.SetFont(escpos.FontC)
	b.SetDoubleSize(false, false)
	b.SetStyle(escpos.Style{Condensed: true})
	b.SetAlign(escpos.AlignLeft)
	b.Text(escpos.Repeat(splitChar(p, b), p.CondensedWidth))
	return nil
}

// splitChar falls back to "-" when the code page has no glyph for the
// configured character
func splitChar(p printing.Printer, b *escpos.Builder) string {
	if b.CanEncode(p.TableSplitChar) {
		return p.TableSplitChar
	}
	return "-"
}

// Finish leaves the printer in a clean state: it resets every text mode,
// cuts and kicks the drawer when the device has them, and replays the
// device settings.
func Finish(doc *printing.DocumentContext, b *escpos.Builder) error {
	b.Text("\n")
	b.Reset()
	if doc.Printer.HasCutter {
		b.Cut()
	}
	if doc.Printer.HasDrawer {
		b.OpenDrawer()
	}
	b.ApplyDeviceSettings(DeviceSettings(doc.Printer))
	return nil
}
