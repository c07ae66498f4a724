package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/persistence/models"
)

func newSQLiteRepository(t *testing.T) *JobRepository {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.DB.AutoMigrate(&models.PrintJobModel{}))
	t.Cleanup(func() { _ = db.Close() })
	return NewJobRepository(db.DB)
}

func newMockRepository(t *testing.T) (*JobRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewJobRepository(gormDB), mock, mockDB
}

func newJob(t *testing.T, tenantID uuid.UUID, docType printing.DocType, number string, createdAt time.Time) *printing.PrintJob {
	t.Helper()
	schema := printing.SchemaCashflowRegular
	if docType == printing.DocTypeCashflowClosing {
		schema = printing.SchemaCashflowClosing
	}
	job, err := printing.NewPrintJob(tenantID, schema, docType, uuid.New(), number, uuid.New())
	require.NoError(t, err)
	job.CreatedAt = createdAt
	job.UpdatedAt = createdAt
	return job
}

func TestJobRepository_SaveAndFind(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	job := newJob(t, tenantID, printing.DocTypeCashflowClosing, "FC-2024/0001", now)
	require.NoError(t, job.SetCopies(2))
	require.NoError(t, repo.Save(ctx, job))

	require.NoError(t, job.StartRendering())
	require.NoError(t, job.Complete("/api/v1/print/streams/a.bin", 1234, []string{"barcode", "qrcode"}))
	require.NoError(t, repo.Save(ctx, job))

	got, err := repo.Get(ctx, tenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, printing.SchemaCashflowClosing, got.SchemaName)
	assert.Equal(t, printing.DocTypeCashflowClosing, got.DocumentType)
	assert.Equal(t, printing.JobStatusCompleted, got.Status)
	assert.Equal(t, 2, got.Copies)
	assert.Equal(t, "/api/v1/print/streams/a.bin", got.StreamURL)
	assert.Equal(t, int64(1234), got.StreamSize)
	assert.Equal(t, []string{"barcode", "qrcode"}, got.UnresolvedSteps)
	assert.Equal(t, job.Version, got.Version)
	require.NotNil(t, got.PrintedAt)
	require.NotNil(t, got.PrintedBy)
	assert.Equal(t, *job.PrintedBy, *got.PrintedBy)

	var count int64
	require.NoError(t, repo.db.Model(&models.PrintJobModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestJobRepository_Get_TenantIsolation(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()

	job := newJob(t, uuid.New(), printing.DocTypeCashflowRegular, "MC-1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, job))

	_, err := repo.Get(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestJobRepository_List(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	regular1 := newJob(t, tenantID, printing.DocTypeCashflowRegular, "MC-001", base)
	regular2 := newJob(t, tenantID, printing.DocTypeCashflowRegular, "MC-002", base.Add(time.Hour))
	closing := newJob(t, tenantID, printing.DocTypeCashflowClosing, "FC-001", base.Add(2*time.Hour))
	require.NoError(t, closing.Fail("printer offline"))
	other := newJob(t, uuid.New(), printing.DocTypeCashflowRegular, "MC-999", base)

	for _, j := range []*printing.PrintJob{regular1, regular2, closing, other} {
		require.NoError(t, repo.Save(ctx, j))
	}

	regular := printing.DocTypeCashflowRegular
	failed := printing.JobStatusFailed
	from := base.Add(30 * time.Minute)

	tests := []struct {
		name   string
		filter printing.PrintJobFilter
		want   []string
		total  int64
	}{
		{"all newest first", printing.PrintJobFilter{}, []string{"FC-001", "MC-002", "MC-001"}, 3},
		{"by type", printing.PrintJobFilter{DocumentType: &regular}, []string{"MC-002", "MC-001"}, 2},
		{"by status", printing.PrintJobFilter{Status: &failed}, []string{"FC-001"}, 1},
		{"by schema", printing.PrintJobFilter{SchemaName: printing.SchemaCashflowClosing}, []string{"FC-001"}, 1},
		{"date from", printing.PrintJobFilter{DateFrom: &from}, []string{"FC-001", "MC-002"}, 2},
		{"search", printing.PrintJobFilter{Filter: shared.Filter{Search: "MC-00"}}, []string{"MC-002", "MC-001"}, 2},
		{"ascending", printing.PrintJobFilter{Filter: shared.Filter{OrderBy: "document_number", OrderDir: "asc"}}, []string{"FC-001", "MC-001", "MC-002"}, 3},
		{"unknown sort field", printing.PrintJobFilter{Filter: shared.Filter{OrderBy: "id; DROP TABLE print_jobs"}}, []string{"FC-001", "MC-002", "MC-001"}, 3},
		{"page 2", printing.PrintJobFilter{Filter: shared.Filter{Page: 2, PageSize: 2}}, []string{"MC-001"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, total, err := repo.List(ctx, tenantID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			numbers := make([]string, len(jobs))
			for i, j := range jobs {
				numbers[i] = j.DocumentNumber
			}
			assert.Equal(t, tt.want, numbers)
		})
	}

	t.Run("no matches", func(t *testing.T) {
		jobs, total, err := repo.List(ctx, uuid.New(), printing.PrintJobFilter{})
		require.NoError(t, err)
		assert.Empty(t, jobs)
		assert.NotNil(t, jobs)
		assert.Zero(t, total)
	})
}

func TestJobRepository_ListByDocument(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	tenantID := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newJob(t, tenantID, printing.DocTypeCashflowRegular, "MC-001", base)
	reprint := newJob(t, tenantID, printing.DocTypeCashflowRegular, "MC-001", base.Add(time.Minute))
	reprint.DocumentID = first.DocumentID
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, reprint))

	jobs, err := repo.ListByDocument(ctx, tenantID, printing.DocTypeCashflowRegular, first.DocumentID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, reprint.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)
}

func TestJobRepository_PurgeBefore(t *testing.T) {
	repo := newSQLiteRepository(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	old := newJob(t, uuid.New(), printing.DocTypeCashflowRegular, "MC-OLD", now.AddDate(0, 0, -45))
	recent := newJob(t, uuid.New(), printing.DocTypeCashflowRegular, "MC-NEW", now.AddDate(0, 0, -2))
	require.NoError(t, repo.Save(ctx, old))
	require.NoError(t, repo.Save(ctx, recent))

	deleted, err := repo.PurgeBefore(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.Get(ctx, recent.TenantID, recent.ID)
	assert.NoError(t, err)
	_, err = repo.Get(ctx, old.TenantID, old.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestJobRepository_DatabaseErrors(t *testing.T) {
	t.Run("find propagates driver errors", func(t *testing.T) {
		repo, mock, mockDB := newMockRepository(t)
		defer mockDB.Close()

		tenantID, id := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "print_jobs" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, id, 1).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.Get(context.Background(), tenantID, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("find maps missing rows", func(t *testing.T) {
		repo, mock, mockDB := newMockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "print_jobs"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Get(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list propagates count errors", func(t *testing.T) {
		repo, mock, mockDB := newMockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "print_jobs"`).
			WillReturnError(errors.New("timeout"))

		_, _, err := repo.List(context.Background(), uuid.New(), printing.PrintJobFilter{})
		assert.EqualError(t, err, "count print jobs: timeout")
	})

	t.Run("list orders by a whitelisted column only", func(t *testing.T) {
		repo, mock, mockDB := newMockRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "print_jobs"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT \* FROM "print_jobs" WHERE tenant_id = \$1 ORDER BY "created_at" DESC`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.List(context.Background(), uuid.New(), printing.PrintJobFilter{
			Filter: shared.Filter{OrderBy: "id; DROP TABLE print_jobs"},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("purge before", func(t *testing.T) {
		repo, mock, mockDB := newMockRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "print_jobs" WHERE created_at < \$1`).
			WillReturnResult(sqlmock.NewResult(0, 7))

		n, err := repo.PurgeBefore(context.Background(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
