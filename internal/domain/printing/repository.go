package printing

import (
	"context"
	"time"

	"github.com/erp/posprint/internal/domain/shared"
	"github.com/google/uuid"
)

// PrintJobRepository persists print jobs. Every read is scoped to one
// tenant; only the retention purge crosses tenants.
type PrintJobRepository interface {
	// Get returns shared.ErrNotFound for a job of another tenant
	Get(ctx context.Context, tenantID, id uuid.UUID) (*PrintJob, error)
	// List returns one page of matching jobs and the total match count
	List(ctx context.Context, tenantID uuid.UUID, filter PrintJobFilter) ([]PrintJob, int64, error)
	// ListByDocument returns every job of a document, newest first
	ListByDocument(ctx context.Context, tenantID uuid.UUID, docType DocType, documentID uuid.UUID) ([]PrintJob, error)
	Save(ctx context.Context, job *PrintJob) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrintJobFilter narrows List. Nil and empty fields do not filter.
type PrintJobFilter struct {
	shared.Filter
	DocumentType *DocType
	DocumentID   *uuid.UUID
	Status       *JobStatus
	SchemaName   string
	PrintedByID  *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
}
