package printing

import (
	"strings"
	"time"

	"github.com/erp/posprint/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxCopies is the hard cap on copies of one job
const MaxCopies = 100

// PrintJob is one rendered document and its delivery to a printer
type PrintJob struct {
	shared.Aggregate
	SchemaName     string
	DocumentType   DocType
	DocumentID     uuid.UUID
	DocumentNumber string
	Status         JobStatus
	Copies         int
	PrinterName    string
	StreamURL      string
	StreamSize     int64
	// UnresolvedSteps are schema names no capability was registered for
	UnresolvedSteps []string
	ErrorMessage    string
	PrintedAt       *time.Time
	PrintedBy       *uuid.UUID
}

// NewPrintJob creates a pending single-copy job. printedBy may be uuid.Nil
// for jobs submitted without a user.
func NewPrintJob(
	tenantID uuid.UUID,
	schemaName string,
	docType DocType,
	documentID uuid.UUID,
	documentNumber string,
	printedBy uuid.UUID,
) (*PrintJob, error) {
	switch {
	case strings.TrimSpace(schemaName) == "":
		return nil, shared.NewDomainError("INVALID_SCHEMA", "Schema name cannot be empty")
	case !docType.IsValid():
		return nil, shared.NewDomainError("INVALID_DOC_TYPE", "Invalid document type: "+docType.String())
	case documentID == uuid.Nil:
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	case documentNumber == "":
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot be empty")
	}

	now := time.Now()
	j := &PrintJob{
		Aggregate:      shared.NewAggregate(tenantID, now),
		SchemaName:     schemaName,
		DocumentType:   docType,
		DocumentID:     documentID,
		DocumentNumber: documentNumber,
		Status:         JobStatusPending,
		Copies:         1,
	}
	if printedBy != uuid.Nil {
		j.PrintedBy = &printedBy
		j.CreatedBy = &printedBy
	}

	e := newJobEvent(EventJobCreated, j, "", now)
	e.Schema = schemaName
	e.Document = documentNumber
	j.Raise(e)
	return j, nil
}

// SetCopies sets how many times the stream is sent, 1 to MaxCopies
func (j *PrintJob) SetCopies(copies int) error {
	if copies < 1 || copies > MaxCopies {
		return shared.NewDomainError("INVALID_COPIES", "Copies must be between 1 and 100")
	}
	j.Copies = copies
	j.Touch(time.Now())
	return nil
}

// SetPrinterName records the printer the job is meant for
func (j *PrintJob) SetPrinterName(name string) {
	j.PrinterName = name
	j.Touch(time.Now())
}

// StartRendering moves a pending job to RENDERING
func (j *PrintJob) StartRendering() error {
	if err := j.transition(JobStatusRendering); err != nil {
		return err
	}
	now := time.Now()
	j.Transitioned(now, newJobEvent(EventJobRendering, j, JobStatusPending, now))
	return nil
}

// Complete stores where the stream went. Unresolved steps do not fail a
// job; they are kept for display.
func (j *PrintJob) Complete(streamURL string, size int64, unresolved []string) error {
	if streamURL == "" {
		return shared.NewDomainError("INVALID_STREAM_URL", "Stream URL cannot be empty")
	}
	from := j.Status
	if err := j.transition(JobStatusCompleted); err != nil {
		return err
	}

	now := time.Now().UTC()
	j.StreamURL = streamURL
	j.StreamSize = size
	j.UnresolvedSteps = append([]string(nil), unresolved...)
	j.PrintedAt = &now

	e := newJobEvent(EventJobCompleted, j, from, now)
	e.StreamURL = streamURL
	e.Unresolved = j.UnresolvedSteps
	j.Transitioned(now, e)
	return nil
}

// Fail ends a job that has not finished yet
func (j *PrintJob) Fail(reason string) error {
	from := j.Status
	if err := j.transition(JobStatusFailed); err != nil {
		return err
	}
	j.ErrorMessage = reason

	now := time.Now()
	e := newJobEvent(EventJobFailed, j, from, now)
	e.Reason = reason
	j.Transitioned(now, e)
	return nil
}

func (j *PrintJob) transition(to JobStatus) error {
	if !j.Status.CanTransitionTo(to) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot move print job from "+j.Status.String()+" to "+to.String())
	}
	j.Status = to
	return nil
}

// IsCompleted reports whether the stream was stored
func (j *PrintJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// HasStream reports whether there is a stored stream to download
func (j *PrintJob) HasStream() bool {
	return j.StreamURL != ""
}
