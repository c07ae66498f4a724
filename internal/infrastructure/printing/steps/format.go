package steps

import (
	"errors"
	"strings"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
	"github.com/shopspring/decimal"
)

// ErrNoDocument is returned by steps that print document data when the
// context carries none
var ErrNoDocument = errors.New("document context has no cashflow document")

func document(doc *printing.DocumentContext) (*printing.Cashflow, error) {
	if doc.Document == nil {
		return nil, ErrNoDocument
	}
	return doc.Document, nil
}

func lineWidth(doc *printing.DocumentContext) int {
	return doc.Printer.WithDefaults().NormalWidth
}

func money(v decimal.Decimal, currency string) string {
	s := v.StringFixed(2)
	if currency != "" {
		s += " " + currency
	}
	return s
}

// row prints a label/value pair on one line
func row(b *escpos.Builder, width int, label, value string) {
	b.Line(escpos.Columns(label, value, width))
}

// title prints a bold section caption
func title(b *escpos.Builder, caption string) {
	b.SetStyle(escpos.Style{Bold: true})
	b.Line(caption)
	b.SetStyle(escpos.Style{})
}

// rule prints a full-width separator with the table split character
func rule(doc *printing.DocumentContext, b *escpos.Builder) {
	p := doc.Printer.WithDefaults()
	b.Line(escpos.Repeat(splitChar(p, b), p.NormalWidth))
}

func wrapped(b *escpos.Builder, text string, width int) {
	for _, l := range escpos.Wrap(text, width) {
		b.Line(l)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
