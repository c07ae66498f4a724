package printing

import (
	"time"

	"github.com/erp/posprint/internal/domain/shared"
)

// Print job event names
const (
	EventJobCreated   = "print_job.created"
	EventJobRendering = "print_job.rendering"
	EventJobCompleted = "print_job.completed"
	EventJobFailed    = "print_job.failed"
)

// JobEvent records one step of a print job's lifecycle. Only the fields
// that matter for the event are set.
type JobEvent struct {
	shared.EventMeta
	From       JobStatus `json:"from,omitempty"`
	To         JobStatus `json:"to"`
	Schema     string    `json:"schema,omitempty"`
	Document   string    `json:"document,omitempty"`
	StreamURL  string    `json:"stream_url,omitempty"`
	Unresolved []string  `json:"unresolved,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

func newJobEvent(name string, j *PrintJob, from JobStatus, now time.Time) *JobEvent {
	return &JobEvent{
		EventMeta: shared.NewEventMeta(name, &j.Aggregate, now),
		From:      from,
		To:        j.Status,
	}
}
