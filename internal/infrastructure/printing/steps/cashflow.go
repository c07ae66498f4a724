package steps

import (
	"fmt"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
)

// Details prints the document title, number and issuing terminal
func Details(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	width := lineWidth(doc)

	b.Text("\n")
	b.SetAlign(escpos.AlignCenter)
	b.SetStyle(escpos.Style{Bold: true})
	b.Line(escpos.Truncate(doc.Label(d.Type.LabelKey()), width))
	b.SetStyle(escpos.Style{})
	b.Line(escpos.Truncate(d.Number, width))
	b.SetAlign(escpos.AlignLeft)

	row(b, width, doc.Label(printing.LabelTerminal), doc.Terminal.Name)
	if doc.Terminal.Store != "" {
		row(b, width, doc.Label(printing.LabelStore), doc.Terminal.Store)
	}
	if d.Description != "" {
		wrapped(b, d.Description, width)
	}
	return nil
}

// Payments prints the amount received per payment method and the total
func Payments(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	width := lineWidth(doc)

	title(b, doc.Label(printing.LabelPayments))
	for _, p := range d.Payments {
		row(b, width, p.Name, money(p.Value, d.Currency))
	}
	rule(doc, b)
	b.SetStyle(escpos.Style{Bold: true})
	row(b, width, doc.Label(printing.LabelTotal), money(d.PaymentsTotal(), d.Currency))
	b.SetStyle(escpos.Style{})
	return nil
}

// Resume prints the drawer balances of a closing
func Resume(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	if d.Resume == nil {
		return fmt.Errorf("document %s has no resume", d.Number)
	}
	width := lineWidth(doc)
	r := d.Resume

	title(b, doc.Label(printing.LabelResume))
	row(b, width, doc.Label(printing.LabelOpeningValue), money(r.OpeningValue, d.Currency))
	row(b, width, doc.Label(printing.LabelExpectedValue), money(r.ExpectedValue, d.Currency))
	row(b, width, doc.Label(printing.LabelClosingValue), money(r.ClosingValue, d.Currency))
	rule(doc, b)
	b.SetStyle(escpos.Style{Bold: true})
	row(b, width, doc.Label(printing.LabelDifference), money(r.Difference(), d.Currency))
	b.SetStyle(escpos.Style{})
	return nil
}

// Sales prints the sales totals per document type
func Sales(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	width := lineWidth(doc)

	title(b, doc.Label(printing.LabelSales))
	for _, s := range d.Sales {
		row(b, width, fmt.Sprintf("%s (%d)", s.DocumentType, s.Count), money(s.Value, d.Currency))
	}
	rule(doc, b)
	b.SetStyle(escpos.Style{Bold: true})
	row(b, width, doc.Label(printing.LabelTotal), money(d.SalesTotal(), d.Currency))
	b.SetStyle(escpos.Style{})
	return nil
}

// Expenses prints the money taken out of the drawer
func Expenses(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	width := lineWidth(doc)

	title(b, doc.Label(printing.LabelExpenses))
	for _, e := range d.Expenses {
		row(b, width, e.Description, money(e.Value, d.Currency))
	}
	rule(doc, b)
	b.SetStyle(escpos.Style{Bold: true})
	row(b, width, doc.Label(printing.LabelTotal), money(d.ExpensesTotal(), d.Currency))
	b.SetStyle(escpos.Style{})
	return nil
}
