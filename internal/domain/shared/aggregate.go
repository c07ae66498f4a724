package shared

import (
	"time"

	"github.com/google/uuid"
)

// Event is a fact raised by an aggregate while it changed state
type Event interface {
	EventName() string
	Meta() EventMeta
}

// EventMeta identifies an event and the aggregate that raised it. Concrete
// events embed it.
type EventMeta struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"event"`
	OccurredAt  time.Time `json:"occurred_at"`
	AggregateID uuid.UUID `json:"aggregate_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
}

// NewEventMeta stamps a new event raised by a at now
func NewEventMeta(name string, a *Aggregate, now time.Time) EventMeta {
	return EventMeta{
		ID:          uuid.New(),
		Name:        name,
		OccurredAt:  now.UTC(),
		AggregateID: a.ID,
		TenantID:    a.TenantID,
	}
}

// EventName returns the event name
func (m EventMeta) EventName() string { return m.Name }

// Meta returns the metadata itself
func (m EventMeta) Meta() EventMeta { return m }

// Aggregate holds what every tenant-scoped aggregate persists next to its
// own fields, plus the events raised since it was loaded.
type Aggregate struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	// Version starts at 1 and grows with every state transition
	Version int

	pending []Event
}

// NewAggregate creates an aggregate with a fresh ID owned by tenantID
func NewAggregate(tenantID uuid.UUID, now time.Time) Aggregate {
	now = now.UTC()
	return Aggregate{
		ID:        uuid.New(),
		TenantID:  tenantID,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touch moves UpdatedAt without a state transition
func (a *Aggregate) Touch(now time.Time) {
	a.UpdatedAt = now.UTC()
}

// Transitioned records a state transition and the events it raised
func (a *Aggregate) Transitioned(now time.Time, events ...Event) {
	a.Touch(now)
	a.Version++
	a.Raise(events...)
}

// Raise queues events without counting a transition
func (a *Aggregate) Raise(events ...Event) {
	a.pending = append(a.pending, events...)
}

// PendingEvents returns the queued events, oldest first
func (a *Aggregate) PendingEvents() []Event {
	return append([]Event(nil), a.pending...)
}

// PullEvents returns the queued events and empties the queue
func (a *Aggregate) PullEvents() []Event {
	events := a.pending
	a.pending = nil
	return events
}
