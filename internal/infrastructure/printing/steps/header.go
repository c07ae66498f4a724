package steps

import (
	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
)

// Image prints the company logo, centred. Contexts without a logo print
// nothing.
func Image(doc *printing.DocumentContext, b *escpos.Builder) error {
	if doc.Logo == nil || len(doc.Logo.Data) == 0 {
		return nil
	}
	b.SetAlign(escpos.AlignCenter)
	b.Image(escpos.Raster{Width: doc.Logo.Width, Height: doc.Logo.Height, Data: doc.Logo.Data})
	b.SetAlign(escpos.AlignLeft)
	return nil
}

// Header prints the company identification block
func Header(doc *printing.DocumentContext, b *escpos.Builder) error {
	width := lineWidth(doc)
	c := doc.Company

	b.SetAlign(escpos.AlignCenter)
	b.SetStyle(escpos.Style{Bold: true})
	b.SetDoubleSize(true, true)
	wrapped(b, c.Name, width/2)
	b.SetDoubleSize(false, false)
	b.SetStyle(escpos.Style{})

	wrapped(b, c.Address, width)
	if place := joinNonEmpty(" ", c.ZipCode, c.City); place != "" {
		b.Line(escpos.Truncate(place, width))
	}
	if c.Country != "" {
		b.Line(escpos.Truncate(c.Country, width))
	}
	if c.VAT != "" {
		b.Line(escpos.Truncate(doc.Label(printing.LabelVAT)+": "+c.VAT, width))
	}
	if c.Phone != "" {
		b.Line(escpos.Truncate(doc.Label(printing.LabelPhone)+": "+c.Phone, width))
	}
	if c.Email != "" {
		b.Line(escpos.Truncate(c.Email, width))
	}
	if c.Website != "" {
		b.Line(escpos.Truncate(c.Website, width))
	}
	b.SetAlign(escpos.AlignLeft)
	return nil
}
