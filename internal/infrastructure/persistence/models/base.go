// Package models holds the gorm persistence models and their mapping to
// domain aggregates.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/posprint/internal/domain/shared"
)

// AggregateColumns are the columns every tenant-scoped table shares
type AggregateColumns struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
	Version   int        `gorm:"not null;default:1"`
}

func aggregateColumns(a shared.Aggregate) AggregateColumns {
	return AggregateColumns{
		ID:        a.ID,
		TenantID:  a.TenantID,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
		Version:   a.Version,
	}
}

// aggregate rebuilds the shared part of an aggregate. Loaded aggregates
// carry no pending events.
func (c AggregateColumns) aggregate() shared.Aggregate {
	return shared.Aggregate{
		ID:        c.ID,
		TenantID:  c.TenantID,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
		Version:   c.Version,
	}
}
