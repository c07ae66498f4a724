package printing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company identifies the business printed in the receipt header
type Company struct {
	Name    string `json:"name" validate:"required,max=200"`
	VAT     string `json:"vat,omitempty" validate:"max=32"`
	Address string `json:"address,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty"`
}

// Terminal identifies the point of sale that issued the document
type Terminal struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" validate:"required"`
	Store string `json:"store,omitempty"`
}

// Printer describes the capabilities of the target device
type Printer struct {
	Name           string    `json:"name,omitempty"`
	PaperSize      PaperSize `json:"paper_size,omitempty" validate:"omitempty,oneof=RECEIPT_58MM RECEIPT_80MM"`
	HasCutter      bool      `json:"has_cutter"`
	HasDrawer      bool      `json:"has_drawer"`
	NormalWidth    int       `json:"normal_width,omitempty" validate:"gte=0,lte=255"`
	CondensedWidth int       `json:"condensed_width,omitempty" validate:"gte=0,lte=255"`
	TableSplitChar string    `json:"table_split_char,omitempty" validate:"max=4"`
	// CodePage is the ESC t character table number
	CodePage int `json:"code_page" validate:"codepage"`
	// Settings are raw bytes replayed after the code page selection
	Settings []byte `json:"settings,omitempty"`
}

// WithDefaults fills zero widths from the paper size and a missing split
// character with "-"
func (p Printer) WithDefaults() Printer {
	normal, condensed := p.PaperSize.Columns()
	if p.NormalWidth <= 0 {
		p.NormalWidth = normal
	}
	if p.CondensedWidth <= 0 {
		p.CondensedWidth = condensed
	}
	if p.TableSplitChar == "" {
		p.TableSplitChar = "-"
	}
	return p
}

// Logo is a monochrome raster image, one bit per pixel, rows padded to
// whole bytes
type Logo struct {
	Width  int    `json:"width" validate:"gt=0"`
	Height int    `json:"height" validate:"gt=0"`
	Data   []byte `json:"data" validate:"required"`
}

// PoweredBy is the footer signature line
type PoweredBy struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// DefaultPoweredBy is printed when the context carries no footer
var DefaultPoweredBy = PoweredBy{Name: "Moloni", URL: "moloni.pt"}

// PaymentLine is an amount received through one payment method
type PaymentLine struct {
	Name  string          `json:"name" validate:"required"`
	Value decimal.Decimal `json:"value"`
}

// SalesLine totals the sales of one document type in a closing
type SalesLine struct {
	DocumentType string          `json:"document_type" validate:"required"`
	Count        int             `json:"count" validate:"gte=0"`
	Value        decimal.Decimal `json:"value"`
}

// ExpenseLine is money taken out of the drawer
type ExpenseLine struct {
	Description string          `json:"description" validate:"required"`
	Value       decimal.Decimal `json:"value"`
}

// CashflowResume holds the drawer balances of a closing
type CashflowResume struct {
	OpeningValue  decimal.Decimal `json:"opening_value"`
	ExpectedValue decimal.Decimal `json:"expected_value"`
	ClosingValue  decimal.Decimal `json:"closing_value"`
}

// Difference returns the counted minus expected balance
func (r CashflowResume) Difference() decimal.Decimal {
	return r.ClosingValue.Sub(r.ExpectedValue)
}

// Cashflow is the business document being printed
type Cashflow struct {
	Type             DocType         `json:"type" validate:"required,oneof=CASHFLOW_REGULAR CASHFLOW_CLOSING"`
	Number           string          `json:"number" validate:"required,max=64"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	ProcessedBy      string          `json:"processed_by,omitempty"`
	Currency         string          `json:"currency,omitempty"`
	Payments         []PaymentLine   `json:"payments,omitempty" validate:"dive"`
	Resume           *CashflowResume `json:"resume,omitempty"`
	Sales            []SalesLine     `json:"sales,omitempty" validate:"dive"`
	Expenses         []ExpenseLine   `json:"expenses,omitempty" validate:"dive"`
	RequireSignature bool            `json:"require_signature"`
}

// PaymentsTotal sums the payment lines
func (c *Cashflow) PaymentsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Payments {
		total = total.Add(p.Value)
	}
	return total
}

// SalesTotal sums the sales lines
func (c *Cashflow) SalesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range c.Sales {
		total = total.Add(s.Value)
	}
	return total
}

// ExpensesTotal sums the expense lines
func (c *Cashflow) ExpensesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Expenses {
		total = total.Add(e.Value)
	}
	return total
}

// DocumentContext bundles everything a render reads. It is treated as
// read-only for the duration of a render and may be shared between
// concurrent renders.
type DocumentContext struct {
	Company   Company    `json:"company" validate:"required"`
	Terminal  Terminal   `json:"terminal" validate:"required"`
	Labels    Labels     `json:"labels,omitempty"`
	Printer   Printer    `json:"printer" validate:"required"`
	Document  *Cashflow  `json:"document,omitempty"`
	Logo      *Logo      `json:"logo,omitempty"`
	PoweredBy *PoweredBy `json:"powered_by,omitempty"`
}

// Footer returns the powered-by line, falling back to the default
func (d *DocumentContext) Footer() PoweredBy {
	if d.PoweredBy != nil && d.PoweredBy.Name != "" {
		return *d.PoweredBy
	}
	return DefaultPoweredBy
}

// Label is shorthand for d.Labels.Get
func (d *DocumentContext) Label(key string) string {
	return d.Labels.Get(key)
}
