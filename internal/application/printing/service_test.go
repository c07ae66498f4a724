package printing_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erp/posprint/internal/application/printing"
	domain "github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/cache"
	infra "github.com/erp/posprint/internal/infrastructure/printing"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Get(ctx context.Context, tenantID, id uuid.UUID) (*domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, tenantID uuid.UUID, filter domain.PrintJobFilter) ([]domain.PrintJob, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.PrintJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepository) ListByDocument(ctx context.Context, tenantID uuid.UUID, docType domain.DocType, documentID uuid.UUID) ([]domain.PrintJob, error) {
	args := m.Called(ctx, tenantID, docType, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PrintJob), args.Error(1)
}

func (m *MockJobRepository) Save(ctx context.Context, job *domain.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

type recordingMetrics struct {
	mu      sync.Mutex
	renders []bool
	jobs    []string
}

func (r *recordingMetrics) RecordRender(_ context.Context, _ string, _ int, complete bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, complete)
}

func (r *recordingMetrics) RecordJob(_ context.Context, _, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, status)
}

// =============================================================================
// Fixtures
// =============================================================================

type fixture struct {
	service   *printing.PrintService
	repo      *MockJobRepository
	transport *MockTransport
	storage   *infra.FileSystemStorage
}

func newFixture(t *testing.T, opts ...printing.ServiceOption) *fixture {
	t.Helper()
	schemas, err := infra.NewSchemaStore(nil)
	require.NoError(t, err)
	storage, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/print/streams",
	})
	require.NoError(t, err)

	f := &fixture{
		repo:      new(MockJobRepository),
		transport: new(MockTransport),
		storage:   storage,
	}
	all := append([]printing.ServiceOption{
		printing.WithTransport(f.transport),
		printing.WithServiceLogger(zaptest.NewLogger(t)),
	}, opts...)
	f.service = printing.NewPrintService(f.repo, schemas, infra.NewSchemaRenderer(nil), storage, all...)
	return f
}

func closingContext() domain.DocumentContext {
	return domain.DocumentContext{
		Company:  domain.Company{Name: "Padaria Central", VAT: "501234567", City: "Porto"},
		Terminal: domain.Terminal{ID: "T1", Name: "Caixa 1"},
		Printer:  domain.Printer{PaperSize: domain.PaperSizeReceipt80MM, HasCutter: true, CodePage: 19},
		Document: &domain.Cashflow{
			Type:        domain.DocTypeCashflowClosing,
			Number:      "FC 2024/15",
			CreatedAt:   time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
			ProcessedBy: "Ana",
			Payments:    []domain.PaymentLine{{Name: "Numerário", Value: decimal.RequireFromString("10.50")}},
			Resume: &domain.CashflowResume{
				OpeningValue:  decimal.NewFromInt(50),
				ExpectedValue: decimal.NewFromInt(60),
				ClosingValue:  decimal.RequireFromString("60.50"),
			},
		},
	}
}

func copies(n int) *int {
	return &n
}

// =============================================================================
// Preview Tests
// =============================================================================

func TestPrintService_Preview(t *testing.T) {
	tenantID := uuid.New()

	t.Run("default schema of the document type", func(t *testing.T) {
		f := newFixture(t)
		resp, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Context: closingContext(), Trace: true})

		require.NoError(t, err)
		assert.Equal(t, domain.SchemaCashflowClosing, resp.Schema)
		assert.True(t, resp.Complete)
		assert.Equal(t, len(resp.Stream), resp.Size)
		assert.Contains(t, resp.Text, "Padaria Central")
		assert.Contains(t, resp.Printed, "Numerário")
		assert.Empty(t, resp.Markers)
		assert.Equal(t, domain.CashflowClosingSchema().Leaves(), resp.Visited)
		require.NotEmpty(t, resp.Trace)
		assert.Equal(t, "Start image", resp.Trace[0].Label)
		assert.NotEmpty(t, resp.TraceText)
	})

	t.Run("inline schema reports unknown steps", func(t *testing.T) {
		f := newFixture(t)
		schema := domain.NewSchema("custom", domain.Steps(domain.StepHeader, "barcode")...)
		resp, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Schema: &schema, Context: closingContext()})

		require.NoError(t, err)
		assert.Equal(t, "custom", resp.Schema)
		assert.False(t, resp.Complete)
		require.Len(t, resp.Markers, 1)
		assert.Equal(t, "barcode", resp.Markers[0].Error)
		assert.Nil(t, resp.Trace)
	})

	t.Run("invalid inline schema", func(t *testing.T) {
		f := newFixture(t)
		schema := domain.Schema{Name: "empty"}
		_, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Schema: &schema, Context: closingContext()})

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_SCHEMA", de.Code)
	})

	t.Run("unknown schema name", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{SchemaName: "nope", Context: closingContext()})

		var re *infra.RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, infra.ErrCodeSchemaNotFound, re.Code)
	})

	t.Run("no schema and no document", func(t *testing.T) {
		f := newFixture(t)
		doc := closingContext()
		doc.Document = nil
		_, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Context: doc})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("invalid context", func(t *testing.T) {
		f := newFixture(t)
		doc := closingContext()
		doc.Company.Name = ""
		_, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Context: doc})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "name", verrs[0].Field())
	})

	t.Run("unsupported code page", func(t *testing.T) {
		f := newFixture(t)
		doc := closingContext()
		doc.Printer.CodePage = 6
		_, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Context: doc})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "code_page", verrs[0].Field())
		assert.Equal(t, "codepage", verrs[0].Tag())
	})

	t.Run("trace disabled by configuration", func(t *testing.T) {
		f := newFixture(t, printing.WithConfig(printing.ServiceConfig{TraceEnabled: false}))
		resp, err := f.service.Preview(context.Background(), tenantID, printing.PreviewRequest{Context: closingContext(), Trace: true})

		require.NoError(t, err)
		assert.Nil(t, resp.Trace)
	})
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestPrintService_Submit(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()

	t.Run("renders, stores and prints every copy", func(t *testing.T) {
		metrics := &recordingMetrics{}
		f := newFixture(t, printing.WithMetrics(metrics))
		var saved *domain.PrintJob
		f.repo.On("Save", mock.Anything, mock.AnythingOfType("*printing.PrintJob")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.PrintJob) }).
			Return(nil).Times(3)
		f.transport.On("Send", mock.Anything, mock.Anything).Return(nil).Times(2)

		resp, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    closingContext(),
			DocumentID: uuid.New(),
			Copies:     copies(2),
		})

		require.NoError(t, err)
		assert.Equal(t, string(domain.JobStatusCompleted), resp.Job.Status)
		assert.Equal(t, domain.SchemaCashflowClosing, resp.Job.SchemaName)
		assert.Equal(t, "FC 2024/15", resp.Job.DocumentNumber)
		assert.Equal(t, 2, resp.Delivered)
		assert.NotEmpty(t, resp.Job.StreamURL)
		assert.Equal(t, userID.String(), resp.Job.PrintedBy)
		assert.Empty(t, saved.PendingEvents(), "events are published once saved")
		assert.Equal(t, 3, saved.Version)
		f.repo.AssertExpectations(t)
		f.transport.AssertExpectations(t)

		assert.Equal(t, []bool{true}, metrics.renders)
		assert.Equal(t, []string{string(domain.JobStatusCompleted)}, metrics.jobs)

		// the stored stream can be downloaded back
		f.repo.On("Get", mock.Anything, tenantID, saved.ID).Return(saved, nil)
		dl, err := f.service.Download(context.Background(), tenantID, saved.ID)
		require.NoError(t, err)
		defer dl.Reader.Close()
		data, err := io.ReadAll(dl.Reader)
		require.NoError(t, err)
		assert.Equal(t, resp.Job.StreamSize, int64(len(data)))
		assert.Equal(t, "cashflow_closing-FC_2024_15.bin", dl.Filename)

		// and served by key under the tenant's prefix only
		key := strings.TrimPrefix(resp.Job.StreamURL, "/api/v1/print/streams/")
		opened, err := f.service.OpenStream(context.Background(), tenantID, key)
		require.NoError(t, err)
		opened.Reader.Close()
		assert.Equal(t, saved.ID.String()+".bin", opened.Filename)

		_, err = f.service.OpenStream(context.Background(), uuid.New(), key)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = f.service.OpenStream(context.Background(), tenantID, tenantID.String()+"/../x.bin")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("opens the drawer with the last copy only", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		var sent [][]byte
		f.transport.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = append(sent, args.Get(1).([]byte)) }).
			Return(nil).Times(3)

		doc := closingContext()
		doc.Printer.HasDrawer = true
		resp, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    doc,
			DocumentID: uuid.New(),
			Copies:     copies(3),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.Delivered)
		require.Len(t, sent, 3)
		kick := []byte{0x1b, 'p', 0, 25, 250}
		assert.NotContains(t, string(sent[0]), string(kick))
		assert.NotContains(t, string(sent[1]), string(kick))
		assert.Contains(t, string(sent[2]), string(kick))
		assert.Equal(t, sent[0], sent[1])
		assert.Equal(t, len(sent[0])+len(kick), len(sent[2]))
	})

	t.Run("keeps unresolved steps on the job", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.transport.On("Send", mock.Anything, mock.Anything).Return(nil).Once()
		schema := domain.NewSchema("custom", domain.Steps(domain.StepHeader, "qrcode")...)

		resp, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Schema:     &schema,
			Context:    closingContext(),
			DocumentID: uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"qrcode"}, resp.Job.UnresolvedSteps)
		require.Len(t, resp.Markers, 1)
	})

	t.Run("printer failure fails the job", func(t *testing.T) {
		f := newFixture(t)
		var saved *domain.PrintJob
		f.repo.On("Save", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.PrintJob) }).
			Return(nil)
		f.transport.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    closingContext(),
			DocumentID: uuid.New(),
		})

		var re *infra.RenderError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, infra.ErrCodeTransport, re.Code)
		require.NotNil(t, saved)
		assert.Equal(t, domain.JobStatusFailed, saved.Status)
		assert.NotEmpty(t, saved.ErrorMessage)
	})

	t.Run("without a transport the job is only stored", func(t *testing.T) {
		f := newFixture(t, printing.WithTransport(nil))
		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    closingContext(),
			DocumentID: uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Delivered)
		assert.Equal(t, string(domain.JobStatusCompleted), resp.Job.Status)
	})

	t.Run("duplicate idempotency key", func(t *testing.T) {
		store := cache.NewMemoryStore()
		defer store.Close()
		f := newFixture(t, printing.WithIdempotencyStore(store))
		f.repo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.transport.On("Send", mock.Anything, mock.Anything).Return(nil)
		req := printing.SubmitRequest{Context: closingContext(), DocumentID: uuid.New(), IdempotencyKey: "abc"}

		_, err := f.service.Submit(context.Background(), tenantID, userID, req)
		require.NoError(t, err)

		_, err = f.service.Submit(context.Background(), tenantID, userID, req)
		assert.ErrorIs(t, err, shared.ErrDuplicate)

		// keys are scoped per tenant
		_, err = f.service.Submit(context.Background(), uuid.New(), userID, req)
		assert.NoError(t, err)
	})

	t.Run("document is required", func(t *testing.T) {
		f := newFixture(t)
		doc := closingContext()
		doc.Document = nil

		_, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			SchemaName: domain.SchemaCashflowClosing,
			Context:    doc,
			DocumentID: uuid.New(),
		})

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("copies above the configured maximum", func(t *testing.T) {
		f := newFixture(t, printing.WithConfig(printing.ServiceConfig{MaxCopies: 3}))

		_, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    closingContext(),
			DocumentID: uuid.New(),
			Copies:     copies(4),
		})

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_COPIES", de.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		_, err := f.service.Submit(context.Background(), tenantID, userID, printing.SubmitRequest{
			Context:    closingContext(),
			DocumentID: uuid.New(),
		})

		assert.ErrorContains(t, err, "failed to save print job")
		f.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestPrintService_Reprint(t *testing.T) {
	tenantID := uuid.New()

	t.Run("no printer configured", func(t *testing.T) {
		f := newFixture(t, printing.WithTransport(nil))
		err := f.service.Reprint(context.Background(), tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("sends the stored stream", func(t *testing.T) {
		f := newFixture(t)
		job, err := domain.NewPrintJob(tenantID, domain.SchemaCashflowRegular, domain.DocTypeCashflowRegular, uuid.New(), "MC 1", uuid.Nil)
		require.NoError(t, err)
		stored, err := f.storage.Store(context.Background(), &infra.StoreRequest{
			TenantID: tenantID, JobID: job.ID, Data: []byte{0x1B, '@', 'x'}, At: job.CreatedAt,
		})
		require.NoError(t, err)
		require.NoError(t, job.StartRendering())
		require.NoError(t, job.Complete(stored.URL, stored.Size, nil))

		f.repo.On("Get", mock.Anything, tenantID, job.ID).Return(job, nil)
		f.transport.On("Send", mock.Anything, []byte{0x1B, '@', 'x'}).Return(nil).Once()

		require.NoError(t, f.service.Reprint(context.Background(), tenantID, job.ID))
		f.transport.AssertExpectations(t)
	})
}

// =============================================================================
// Job Query Tests
// =============================================================================

func TestPrintService_GetJob(t *testing.T) {
	f := newFixture(t)
	tenantID, jobID := uuid.New(), uuid.New()
	f.repo.On("Get", mock.Anything, tenantID, jobID).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetJob(context.Background(), tenantID, jobID)

	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, "Print job not found", de.Message)
}

func TestPrintService_ListJobs(t *testing.T) {
	tenantID := uuid.New()
	documentID := uuid.New()

	t.Run("builds the filter", func(t *testing.T) {
		f := newFixture(t)
		job, err := domain.NewPrintJob(tenantID, domain.SchemaCashflowClosing, domain.DocTypeCashflowClosing, documentID, "FC 1", uuid.Nil)
		require.NoError(t, err)
		matches := mock.MatchedBy(func(filter domain.PrintJobFilter) bool {
			return filter.Page == 2 &&
				filter.PageSize == 10 &&
				filter.DocumentType != nil && *filter.DocumentType == domain.DocTypeCashflowClosing &&
				filter.Status != nil && *filter.Status == domain.JobStatusPending &&
				filter.DocumentID != nil && *filter.DocumentID == documentID &&
				filter.SchemaName == "cashflow_closing"
		})
		f.repo.On("List", mock.Anything, tenantID, matches).Return([]domain.PrintJob{*job}, int64(11), nil)

		resp, err := f.service.ListJobs(context.Background(), tenantID, printing.ListJobsRequest{
			Page:       2,
			PageSize:   10,
			DocType:    "CASHFLOW_CLOSING",
			Status:     "PENDING",
			DocumentID: documentID.String(),
			SchemaName: "cashflow_closing",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.Total)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, job.ID.String(), resp.Items[0].ID)
	})

	tests := []struct {
		name string
		req  printing.ListJobsRequest
	}{
		{"invalid doc type", printing.ListJobsRequest{Page: 1, PageSize: 10, DocType: "INVOICE"}},
		{"invalid status", printing.ListJobsRequest{Page: 1, PageSize: 10, Status: "PRINTED"}},
		{"invalid document id", printing.ListJobsRequest{Page: 1, PageSize: 10, DocumentID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.ListJobs(context.Background(), tenantID, tt.req)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestPrintService_Download_NoStream(t *testing.T) {
	f := newFixture(t)
	tenantID := uuid.New()
	job, err := domain.NewPrintJob(tenantID, domain.SchemaCashflowRegular, domain.DocTypeCashflowRegular, uuid.New(), "MC 1", uuid.Nil)
	require.NoError(t, err)
	f.repo.On("Get", mock.Anything, tenantID, job.ID).Return(job, nil)

	_, err = f.service.Download(context.Background(), tenantID, job.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPrintService_CleanupExpired(t *testing.T) {
	t.Run("retention disabled", func(t *testing.T) {
		f := newFixture(t)
		result, err := f.service.CleanupExpired(context.Background())

		require.NoError(t, err)
		assert.Zero(t, result.JobsDeleted)
		f.repo.AssertNotCalled(t, "PurgeBefore", mock.Anything, mock.Anything)
	})

	t.Run("removes jobs older than the retention", func(t *testing.T) {
		f := newFixture(t, printing.WithConfig(printing.ServiceConfig{Retention: 48 * time.Hour}))
		before := time.Now().Add(-48 * time.Hour)
		f.repo.On("PurgeBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			return !cutoff.Before(before) && cutoff.Before(time.Now())
		})).Return(int64(3), nil)

		result, err := f.service.CleanupExpired(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), result.JobsDeleted)
		assert.Equal(t, 0, result.StreamsDeleted)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t, printing.WithConfig(printing.ServiceConfig{Retention: time.Hour}))
		f.repo.On("PurgeBefore", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

		_, err := f.service.CleanupExpired(context.Background())
		assert.ErrorContains(t, err, "failed to delete expired print jobs")
	})
}

// =============================================================================
// Schema Tests
// =============================================================================

func TestPrintService_Schemas(t *testing.T) {
	f := newFixture(t)

	schemas := f.service.ListSchemas()
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
		assert.Empty(t, s.Unresolved, s.Name)
	}
	assert.Contains(t, names, domain.SchemaCashflowRegular)
	assert.Contains(t, names, domain.SchemaCashflowClosing)

	schema, err := f.service.GetSchema("CASHFLOW_REGULAR")
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaCashflowRegular, schema.Name)
	assert.True(t, schema.IsDefault)
	assert.Equal(t, domain.CashflowRegularSchema().Leaves(), schema.Leaves)

	_, err = f.service.GetSchema("INVOICE")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	types := f.service.GetDocumentTypes()
	require.Len(t, types, 2)
	assert.Equal(t, domain.SchemaCashflowRegular, types[0].DefaultSchema)
}
