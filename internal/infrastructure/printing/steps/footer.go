package steps

import (
	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
)

const createdAtLayout = "2006-01-02 15:04:05"

// Signature prints a blank line to sign on with its caption. Documents
// that do not ask for a signature print nothing; a context without a
// document always gets the line.
func Signature(doc *printing.DocumentContext, b *escpos.Builder) error {
	if doc.Document != nil && !doc.Document.RequireSignature {
		return nil
	}
	width := lineWidth(doc)
	b.Feed(2)
	b.SetAlign(escpos.AlignCenter)
	b.Line(escpos.Repeat("_", width*3/4))
	b.Line(doc.Label(printing.LabelSignature))
	b.SetAlign(escpos.AlignLeft)
	return nil
}

// CreatedAt prints when the document was issued
func CreatedAt(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		return nil
	}
	row(b, lineWidth(doc), doc.Label(printing.LabelCreatedAt), d.CreatedAt.Format(createdAtLayout))
	return nil
}

// ProcessedBy prints the operator who issued the document
func ProcessedBy(doc *printing.DocumentContext, b *escpos.Builder) error {
	d, err := document(doc)
	if err != nil {
		return err
	}
	if d.ProcessedBy == "" {
		return nil
	}
	row(b, lineWidth(doc), doc.Label(printing.LabelProcessedBy), d.ProcessedBy)
	return nil
}

// PoweredBy prints the software signature in the condensed font
func PoweredBy(doc *printing.DocumentContext, b *escpos.Builder) error {
	footer := doc.Footer()
	p := doc.Printer.WithDefaults()

	b.SetFont(escpos.FontB)
	b.SetAlign(escpos.AlignCenter)
	b.Line(escpos.Truncate(joinNonEmpty(" ", doc.Label(printing.LabelPoweredBy), footer.Name), p.CondensedWidth))
	if footer.URL != "" {
		b.Line(escpos.Truncate(footer.URL, p.CondensedWidth))
	}
	b.SetAlign(escpos.AlignLeft)
	b.SetFont(escpos.FontA)
	return nil
}
