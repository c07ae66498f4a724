package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/persistence/models"
)

// jobSortColumns maps the sort keys the API accepts to columns. Anything
// else sorts by creation time.
var jobSortColumns = map[string]string{
	"created_at":      "created_at",
	"updated_at":      "updated_at",
	"printed_at":      "printed_at",
	"document_type":   "document_type",
	"document_number": "document_number",
	"schema_name":     "schema_name",
	"status":          "status",
}

// JobRepository stores print jobs in the print_jobs table
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) jobs(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.PrintJobModel{}).Where("tenant_id = ?", tenantID)
}

func (r *JobRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*printing.PrintJob, error) {
	var m models.PrintJobModel
	err := r.jobs(ctx, tenantID).Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// List counts the matches before reading the page so an empty result
// costs one query
func (r *JobRepository) List(ctx context.Context, tenantID uuid.UUID, filter printing.PrintJobFilter) ([]printing.PrintJob, int64, error) {
	var total int64
	if err := r.jobs(ctx, tenantID).Scopes(matching(filter)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count print jobs: %w", err)
	}
	if total == 0 {
		return []printing.PrintJob{}, 0, nil
	}

	var rows []models.PrintJobModel
	err := r.jobs(ctx, tenantID).
		Scopes(matching(filter), sorted(filter.Filter), paged(filter.Filter)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list print jobs: %w", err)
	}
	return toDomain(rows), total, nil
}

func (r *JobRepository) ListByDocument(ctx context.Context, tenantID uuid.UUID, docType printing.DocType, documentID uuid.UUID) ([]printing.PrintJob, error) {
	var rows []models.PrintJobModel
	err := r.jobs(ctx, tenantID).
		Where("document_type = ? AND document_id = ?", docType.String(), documentID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rows), nil
}

// Save upserts by primary key
func (r *JobRepository) Save(ctx context.Context, job *printing.PrintJob) error {
	return r.db.WithContext(ctx).Save(models.PrintJobModelFromDomain(job)).Error
}

// PurgeBefore deletes the jobs of every tenant created before cutoff
func (r *JobRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.PrintJobModel{})
	return res.RowsAffected, res.Error
}

func matching(f printing.PrintJobFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.DocumentType != nil {
			q = q.Where("document_type = ?", f.DocumentType.String())
		}
		if f.DocumentID != nil {
			q = q.Where("document_id = ?", *f.DocumentID)
		}
		if f.Status != nil {
			q = q.Where("status = ?", f.Status.String())
		}
		if f.SchemaName != "" {
			q = q.Where("schema_name = ?", f.SchemaName)
		}
		if f.PrintedByID != nil {
			q = q.Where("printed_by = ?", *f.PrintedByID)
		}
		if f.DateFrom != nil {
			q = q.Where("created_at >= ?", f.DateFrom.UTC())
		}
		if f.DateTo != nil {
			q = q.Where("created_at <= ?", f.DateTo.UTC())
		}
		if f.Search != "" {
			q = q.Where("document_number LIKE ?", "%"+f.Search+"%")
		}
		return q
	}
}

func sorted(f shared.Filter) func(*gorm.DB) *gorm.DB {
	column, ok := jobSortColumns[strings.TrimSpace(f.OrderBy)]
	if !ok {
		column = "created_at"
	}
	desc := !strings.EqualFold(strings.TrimSpace(f.OrderDir), "asc")
	return func(q *gorm.DB) *gorm.DB {
		return q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

func paged(f shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.PageSize <= 0 {
			return q
		}
		return q.Offset(f.Offset()).Limit(f.PageSize)
	}
}

func toDomain(rows []models.PrintJobModel) []printing.PrintJob {
	jobs := make([]printing.PrintJob, len(rows))
	for i := range rows {
		jobs[i] = *rows[i].ToDomain()
	}
	return jobs
}

var _ printing.PrintJobRepository = (*JobRepository)(nil)
