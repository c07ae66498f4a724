package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/posprint/internal/domain/printing"
)

// PrintJobModel is the gorm model of the print_jobs table
type PrintJobModel struct {
	AggregateColumns
	SchemaName      string     `gorm:"column:schema_name;type:varchar(100);not null"`
	DocumentType    string     `gorm:"column:document_type;type:varchar(50);not null"`
	DocumentID      uuid.UUID  `gorm:"column:document_id;type:uuid;not null"`
	DocumentNumber  string     `gorm:"column:document_number;type:varchar(100);not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Copies          int        `gorm:"not null;default:1"`
	PrinterName     string     `gorm:"column:printer_name;type:varchar(100)"`
	StreamURL       string     `gorm:"column:stream_url;type:text"`
	StreamSize      int64      `gorm:"column:stream_size;not null;default:0"`
	UnresolvedSteps []string   `gorm:"column:unresolved_steps;type:text;serializer:json"`
	ErrorMessage    string     `gorm:"column:error_message;type:text"`
	PrintedAt       *time.Time `gorm:"column:printed_at"`
	PrintedBy       *uuid.UUID `gorm:"column:printed_by;type:uuid"`
}

// TableName returns the table name for PrintJobModel
func (PrintJobModel) TableName() string {
	return "print_jobs"
}

// ToDomain converts the model to the domain aggregate
func (m *PrintJobModel) ToDomain() *printing.PrintJob {
	return &printing.PrintJob{
		Aggregate:       m.AggregateColumns.aggregate(),
		SchemaName:      m.SchemaName,
		DocumentType:    printing.DocType(m.DocumentType),
		DocumentID:      m.DocumentID,
		DocumentNumber:  m.DocumentNumber,
		Status:          printing.JobStatus(m.Status),
		Copies:          m.Copies,
		PrinterName:     m.PrinterName,
		StreamURL:       m.StreamURL,
		StreamSize:      m.StreamSize,
		UnresolvedSteps: m.UnresolvedSteps,
		ErrorMessage:    m.ErrorMessage,
		PrintedAt:       m.PrintedAt,
		PrintedBy:       m.PrintedBy,
	}
}

// PrintJobModelFromDomain creates a PrintJobModel from the domain aggregate
func PrintJobModelFromDomain(j *printing.PrintJob) *PrintJobModel {
	m := &PrintJobModel{
		AggregateColumns: aggregateColumns(j.Aggregate),
		SchemaName:       j.SchemaName,
		DocumentType:     string(j.DocumentType),
		DocumentID:       j.DocumentID,
		DocumentNumber:   j.DocumentNumber,
		Status:           string(j.Status),
		Copies:           j.Copies,
		PrinterName:      j.PrinterName,
		StreamURL:        j.StreamURL,
		StreamSize:       j.StreamSize,
		UnresolvedSteps:  j.UnresolvedSteps,
		ErrorMessage:     j.ErrorMessage,
		PrintedBy:        j.PrintedBy,
	}
	if j.PrintedAt != nil {
		at := j.PrintedAt.UTC()
		m.PrintedAt = &at
	}
	return m
}
