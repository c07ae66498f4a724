package printing

// Label keys used by the built-in steps
const (
	LabelCashflowRegular = "cashflow_regular"
	LabelCashflowClosing = "cashflow_closing"
	LabelVAT             = "vat"
	LabelPhone           = "phone"
	LabelEmail           = "email"
	LabelWebsite         = "website"
	LabelDocument        = "document"
	LabelTerminal        = "terminal"
	LabelStore           = "store"
	LabelDescription     = "description"
	LabelPayments        = "payments"
	LabelTotal           = "total"
	LabelResume          = "resume"
	LabelOpeningValue    = "opening_value"
	LabelExpectedValue   = "expected_value"
	LabelClosingValue    = "closing_value"
	LabelDifference      = "difference"
	LabelSales           = "sales"
	LabelExpenses        = "expenses"
	LabelSignature       = "signature"
	LabelCreatedAt       = "created_at"
	LabelProcessedBy     = "processed_by"
	LabelPoweredBy       = "powered_by"
)

var defaultLabels = map[string]string{
	LabelCashflowRegular: "Movimento de Caixa",
	LabelCashflowClosing: "Fecho de Caixa",
	LabelVAT:             "Contribuinte",
	LabelPhone:           "Telefone",
	LabelEmail:           "Email",
	LabelWebsite:         "Web",
	LabelDocument:        "Documento",
	LabelTerminal:        "Terminal",
	LabelStore:           "Loja",
	LabelDescription:     "Descrição",
	LabelPayments:        "Pagamentos",
	LabelTotal:           "Total",
	LabelResume:          "Resumo",
	LabelOpeningValue:    "Valor inicial",
	LabelExpectedValue:   "Valor esperado",
	LabelClosingValue:    "Valor final",
	LabelDifference:      "Diferença",
	LabelSales:           "Vendas",
	LabelExpenses:        "Despesas",
	LabelSignature:       "Assinatura",
	LabelCreatedAt:       "Criado em",
	LabelProcessedBy:     "Processado por",
	LabelPoweredBy:       "Powered by",
}

// Labels holds the printable captions, keyed by label key
type Labels map[string]string

// Get returns the caption for key, falling back to the built-in default
// and then to the key itself
func (l Labels) Get(key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	if v, ok := defaultLabels[key]; ok {
		return v
	}
	return key
}

// DefaultLabels returns a copy of the built-in captions
func DefaultLabels() Labels {
	out := make(Labels, len(defaultLabels))
	for k, v := range defaultLabels {
		out[k] = v
	}
	return out
}
