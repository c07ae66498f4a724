package printing

import "slices"

// DocType represents the type of document that can be printed
type DocType string

const (
	DocTypeCashflowRegular DocType = "CASHFLOW_REGULAR" // cash drawer movement slip
	DocTypeCashflowClosing DocType = "CASHFLOW_CLOSING" // end of day closing report
)

// IsValid reports whether d is a document type the service can print
func (d DocType) IsValid() bool {
	return slices.Contains(AllDocTypes(), d)
}

func (d DocType) String() string {
	return string(d)
}

// LabelKey returns the label key used to print the document title
func (d DocType) LabelKey() string {
	switch d {
	case DocTypeCashflowRegular:
		return LabelCashflowRegular
	case DocTypeCashflowClosing:
		return LabelCashflowClosing
	default:
		return string(d)
	}
}

// AllDocTypes returns the printable document types in display order
func AllDocTypes() []DocType {
	return []DocType{DocTypeCashflowRegular, DocTypeCashflowClosing}
}

// PaperSize represents the roll width of a receipt printer
type PaperSize string

const (
	PaperSizeReceipt58MM PaperSize = "RECEIPT_58MM"
	PaperSizeReceipt80MM PaperSize = "RECEIPT_80MM"
)

// IsValid reports whether p is a supported roll width
func (p PaperSize) IsValid() bool {
	return p == PaperSizeReceipt58MM || p == PaperSizeReceipt80MM
}

// Columns returns the characters per line for font A and for the condensed font
func (p PaperSize) Columns() (normal, condensed int) {
	switch p {
	case PaperSizeReceipt58MM:
		return 32, 42
	default:
		return 48, 64
	}
}

// JobStatus is where a print job is in its lifecycle
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// jobTransitions lists the statuses each status may move to. Statuses
// missing from the map are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:   {JobStatusRendering, JobStatusFailed},
	JobStatusRendering: {JobStatusCompleted, JobStatusFailed},
}

// IsValid reports whether s is a known status
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal reports whether s allows no further transitions
func (s JobStatus) IsTerminal() bool {
	return s.IsValid() && len(jobTransitions[s]) == 0
}

// CanTransitionTo reports whether a job in s may move to target
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	return slices.Contains(jobTransitions[s], target)
}
