package printing

import (
	"io"
	"time"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/google/uuid"
)

// =============================================================================
// Render DTOs
// =============================================================================

// PreviewRequest represents a request to render a document without printing it.
// The schema is taken from Schema when given, then SchemaName, then the
// default schema of the document type.
type PreviewRequest struct {
	SchemaName string                   `json:"schema_name" binding:"omitempty,max=100"`
	Schema     *printing.Schema         `json:"schema"`
	Context    printing.DocumentContext `json:"context"`
	Trace      bool                     `json:"trace"`
}

// PreviewResponse represents the rendered stream and its diagnostics
type PreviewResponse struct {
	Schema     string                 `json:"schema"`
	Stream     []byte                 `json:"stream"` // base64 in JSON
	Text       string                 `json:"text"`
	Printed    string                 `json:"printed"` // Text as the code page prints it
	Size       int                    `json:"size"`
	Markers    []printing.ErrorMarker `json:"markers"`
	StepErrors []StepErrorDTO         `json:"step_errors"`
	Visited    []string               `json:"visited"`
	Complete   bool                   `json:"complete"`
	Trace      []TraceEntryDTO        `json:"trace,omitempty"`
	TraceText  string                 `json:"trace_text,omitempty"`
}

// StepErrorDTO represents a failed step
type StepErrorDTO struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

// TraceEntryDTO is one timing entry, times in seconds
type TraceEntryDTO struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Delta float64 `json:"delta"`
}

// SubmitRequest represents a request to render, store and print a document
type SubmitRequest struct {
	SchemaName  string                   `json:"schema_name" binding:"omitempty,max=100"`
	Schema      *printing.Schema         `json:"schema"`
	Context     printing.DocumentContext `json:"context"`
	DocumentID  uuid.UUID                `json:"document_id" binding:"required"`
	Copies      *int                     `json:"copies" binding:"omitempty,min=1,max=100"`
	PrinterName string                   `json:"printer_name" binding:"max=100"`
	Trace       bool                     `json:"trace"`
	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

// SubmitResponse represents the job created by a submission
type SubmitResponse struct {
	Job        PrintJobResponse       `json:"job"`
	Markers    []printing.ErrorMarker `json:"markers"`
	StepErrors []StepErrorDTO         `json:"step_errors"`
	Delivered  int                    `json:"delivered"`
	Trace      []TraceEntryDTO        `json:"trace,omitempty"`
}

// =============================================================================
// Print Job DTOs
// =============================================================================

// ListJobsRequest represents a request to list print jobs
type ListJobsRequest struct {
	Page       int        `form:"page" binding:"min=1"`
	PageSize   int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search     string     `form:"search"`
	DocType    string     `form:"doc_type"`
	Status     string     `form:"status"`
	SchemaName string     `form:"schema_name"`
	DocumentID string     `form:"document_id" binding:"omitempty,uuid"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// PrintJobResponse represents a print job response
type PrintJobResponse struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	SchemaName      string     `json:"schema_name"`
	DocumentType    string     `json:"document_type"`
	DocumentID      string     `json:"document_id"`
	DocumentNumber  string     `json:"document_number"`
	Status          string     `json:"status"`
	Copies          int        `json:"copies"`
	PrinterName     string     `json:"printer_name,omitempty"`
	StreamURL       string     `json:"stream_url,omitempty"`
	StreamSize      int64      `json:"stream_size,omitempty"`
	UnresolvedSteps []string   `json:"unresolved_steps,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	PrintedAt       *time.Time `json:"printed_at,omitempty"`
	PrintedBy       string     `json:"printed_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ListJobsResponse represents a paginated list of print jobs
type ListJobsResponse struct {
	Items []PrintJobResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

// DownloadResult is an open stored stream. The caller closes Reader.
type DownloadResult struct {
	Reader   io.ReadCloser
	Filename string
	Size     int64
}

// CleanupResult reports what a retention sweep removed
type CleanupResult struct {
	JobsDeleted    int64 `json:"jobs_deleted"`
	StreamsDeleted int   `json:"streams_deleted"`
}

// =============================================================================
// Schema DTOs
// =============================================================================

// SchemaResponse represents a schema available for rendering
type SchemaResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DocumentType string          `json:"document_type,omitempty"`
	Description  string          `json:"description,omitempty"`
	Steps        []printing.Node `json:"steps"`
	Leaves       []string        `json:"leaves"`
	// Unresolved lists leaves no step is registered for
	Unresolved []string `json:"unresolved,omitempty"`
	IsDefault  bool     `json:"is_default"`
	Source     string   `json:"source"`
}

// DocumentTypeResponse represents a document type
type DocumentTypeResponse struct {
	Code          string `json:"code"`
	DefaultSchema string `json:"default_schema,omitempty"`
}
