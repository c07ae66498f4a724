package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/escpos"
	"github.com/erp/posprint/internal/infrastructure/logger"
	infra "github.com/erp/posprint/internal/infrastructure/printing"
	"github.com/erp/posprint/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const serviceName = "print"

// SchemaCatalog looks up schemas by name and document type
type SchemaCatalog interface {
	GetByName(name string) (printing.Schema, bool)
	GetDefault(docType printing.DocType) (printing.Schema, bool)
	GetAll() []infra.StoredSchema
}

// MetricsRecorder receives render and job outcomes
type MetricsRecorder interface {
	RecordRender(ctx context.Context, schema string, size int, complete bool)
	RecordJob(ctx context.Context, docType, status string, elapsed time.Duration)
}

// ServiceConfig holds the tunables of the print service
type ServiceConfig struct {
	// TraceEnabled allows callers to request step timings
	TraceEnabled bool
	MaxCopies    int
	// IdempotencyTTL is how long a submission key is remembered
	IdempotencyTTL time.Duration
	// Retention is the age after which jobs and streams are removed.
	// Zero keeps them forever.
	Retention time.Duration
}

// DefaultServiceConfig returns the default service configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		TraceEnabled:   true,
		MaxCopies:      100,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// PrintService handles printing-related business operations
type PrintService struct {
	jobRepo     printing.PrintJobRepository
	schemas     SchemaCatalog
	renderer    *infra.SchemaRenderer
	storage     infra.StreamStorage
	transport   escpos.Transport
	idempotency shared.IdempotencyStore
	metrics     MetricsRecorder
	validate    *validator.Validate
	config      ServiceConfig
	logger      *zap.Logger
}

// ServiceOption configures a PrintService
type ServiceOption func(*PrintService)

// WithTransport sets the printer submitted jobs are sent to. Without one
// jobs are only rendered and stored.
func WithTransport(t escpos.Transport) ServiceOption {
	return func(s *PrintService) {
		s.transport = t
	}
}

// WithIdempotencyStore enables duplicate submission detection
func WithIdempotencyStore(store shared.IdempotencyStore) ServiceOption {
	return func(s *PrintService) {
		s.idempotency = store
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *PrintService) {
		s.metrics = m
	}
}

// WithServiceLogger sets the logger
func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *PrintService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig sets the service configuration
func WithConfig(cfg ServiceConfig) ServiceOption {
	return func(s *PrintService) {
		if cfg.MaxCopies <= 0 {
			cfg.MaxCopies = 100
		}
		if cfg.IdempotencyTTL <= 0 {
			cfg.IdempotencyTTL = 24 * time.Hour
		}
		s.config = cfg
	}
}

// NewPrintService creates a new PrintService
func NewPrintService(
	jobRepo printing.PrintJobRepository,
	schemas SchemaCatalog,
	renderer *infra.SchemaRenderer,
	storage infra.StreamStorage,
	opts ...ServiceOption,
) *PrintService {
	if renderer == nil {
		renderer = infra.NewSchemaRenderer(nil)
	}
	s := &PrintService{
		jobRepo:  jobRepo,
		schemas:  schemas,
		renderer: renderer,
		storage:  storage,
		validate: NewContextValidator(),
		config:   DefaultServiceConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewContextValidator validates document contexts. Errors name JSON fields
// and the codepage tag accepts the character tables text can be encoded for.
func NewContextValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("codepage", func(fl validator.FieldLevel) bool {
		return escpos.SupportedCodePage(int(fl.Field().Int()))
	})
	return v
}

// =============================================================================
// Render Operations
// =============================================================================

// Preview renders a document and returns the stream without storing or
// printing it
func (s *PrintService) Preview(ctx context.Context, tenantID uuid.UUID, req PreviewRequest) (resp *PreviewResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "preview",
		telemetry.AttrTenantID.String(tenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	schema, err := s.resolveSchema(req.Schema, req.SchemaName, &req.Context)
	if err != nil {
		return nil, err
	}
	if err := s.validateContext(&req.Context); err != nil {
		return nil, err
	}
	span.SetAttributes(telemetry.AttrSchema.String(schema.Name))

	result, err := s.render(ctx, schema, &req.Context, req.Trace)
	if err != nil {
		return nil, err
	}

	return toPreviewResponse(result), nil
}

// Submit renders a document, stores the stream and sends it to the printer.
// A non-empty idempotency key that was already seen for the tenant is
// rejected with shared.ErrDuplicate.
func (s *PrintService) Submit(ctx context.Context, tenantID, userID uuid.UUID, req SubmitRequest) (resp *SubmitResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "submit",
		telemetry.AttrTenantID.String(tenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()
	log := logger.Enrich(ctx, s.logger)

	if req.Context.Document == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document is required to submit a print job")
	}
	schema, err := s.resolveSchema(req.Schema, req.SchemaName, &req.Context)
	if err != nil {
		return nil, err
	}
	if err := s.validateContext(&req.Context); err != nil {
		return nil, err
	}
	if req.Copies != nil && *req.Copies > s.config.MaxCopies {
		return nil, shared.NewDomainError("INVALID_COPIES",
			fmt.Sprintf("Number of copies cannot exceed %d", s.config.MaxCopies))
	}

	if err := s.claimIdempotencyKey(ctx, tenantID, req.IdempotencyKey); err != nil {
		return nil, err
	}

	doc := req.Context.Document
	span.SetAttributes(
		telemetry.AttrSchema.String(schema.Name),
		telemetry.AttrDocType.String(doc.Type.String()),
	)

	job, err := printing.NewPrintJob(tenantID, schema.Name, doc.Type, req.DocumentID, doc.Number, userID)
	if err != nil {
		return nil, err
	}
	if req.Copies != nil && *req.Copies > 1 {
		if err := job.SetCopies(*req.Copies); err != nil {
			return nil, err
		}
	}
	printerName := req.PrinterName
	if printerName == "" {
		printerName = req.Context.Printer.Name
	}
	if printerName != "" {
		job.SetPrinterName(printerName)
	}

	// Save job in pending state
	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save print job: %w", err)
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordJob(ctx, job.DocumentType.String(), job.Status.String(), time.Since(started))
		}
	}()

	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	result, err := s.render(ctx, schema, &req.Context, req.Trace)
	if err != nil {
		log.Error("schema rendering failed", zap.Error(err), zap.String("job_id", job.ID.String()))
		s.failJob(ctx, job, "Rendering failed. Please check the document context.")
		return nil, fmt.Errorf("failed to render schema: %w", err)
	}

	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		TenantID: tenantID,
		JobID:    job.ID,
		Data:     result.Bytes(),
		At:       job.CreatedAt,
	})
	if err != nil {
		log.Error("stream storage failed", zap.Error(err), zap.String("job_id", job.ID.String()))
		s.failJob(ctx, job, "Failed to save the print stream. Please try again later.")
		return nil, fmt.Errorf("failed to store stream: %w", err)
	}

	delivered, err := s.deliver(ctx, result.Stream, job.Copies)
	if err != nil {
		log.Error("printer delivery failed",
			zap.Error(err),
			zap.String("job_id", job.ID.String()),
			zap.Int("delivered", delivered))
		s.failJob(ctx, job, "Printer is unreachable. Please check the printer connection.")
		return nil, infra.NewRenderError(infra.ErrCodeTransport, "failed to send stream to printer", err)
	}

	if err := job.Complete(stored.URL, stored.Size, result.Unresolved()); err != nil {
		return nil, err
	}
	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	log.Info("print job completed",
		zap.String("job_id", job.ID.String()),
		zap.String("schema", schema.Name),
		zap.String("doc_type", doc.Type.String()),
		zap.Int64("size", stored.Size),
		zap.Int("delivered", delivered),
		zap.Strings("unresolved", result.Unresolved()))

	preview := toPreviewResponse(result)
	return &SubmitResponse{
		Job:        *toJobResponse(job),
		Markers:    preview.Markers,
		StepErrors: preview.StepErrors,
		Delivered:  delivered,
		Trace:      preview.Trace,
	}, nil
}

// Reprint sends the stored stream of a completed job to the printer again
func (s *PrintService) Reprint(ctx context.Context, tenantID, jobID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "reprint",
		telemetry.AttrTenantID.String(tenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if s.transport == nil {
		return shared.NewDomainError("INVALID_STATE", "No printer is configured")
	}

	download, err := s.Download(ctx, tenantID, jobID)
	if err != nil {
		return err
	}
	defer download.Reader.Close()

	data, err := io.ReadAll(download.Reader)
	if err != nil {
		return infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to read stored stream", err)
	}
	if err := s.transport.Send(ctx, data); err != nil {
		return infra.NewRenderError(infra.ErrCodeTransport, "failed to send stream to printer", err)
	}

	logger.Enrich(ctx, s.logger).Info("print job reprinted", zap.String("job_id", jobID.String()))
	return nil
}

func (s *PrintService) render(ctx context.Context, schema printing.Schema, doc *printing.DocumentContext, trace bool) (*infra.RenderResult, error) {
	result, err := s.renderer.Render(ctx, schema, doc, infra.WithTrace(trace && s.config.TraceEnabled))
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRender(ctx, schema.Name, len(result.Bytes()), result.Complete())
	}
	if !result.Complete() {
		telemetry.AddEvent(ctx, "render.incomplete",
			attribute.StringSlice("unresolved", result.Unresolved()),
			attribute.Int("step_errors", len(result.StepErrors)))
	}
	return result, nil
}

// deliver sends the stream copies times and returns how many copies were
// sent. The cash drawer opens once, with the last copy.
func (s *PrintService) deliver(ctx context.Context, stream escpos.Stream, copies int) (int, error) {
	if s.transport == nil {
		return 0, nil
	}
	for i := 0; i < copies; i++ {
		if err := s.transport.Send(ctx, stream.CopyBytes(i, copies)); err != nil {
			return i, err
		}
	}
	return copies, nil
}

func (s *PrintService) failJob(ctx context.Context, job *printing.PrintJob, message string) {
	if err := job.Fail(message); err != nil {
		return
	}
	if err := s.saveJob(ctx, job); err != nil {
		logger.Enrich(ctx, s.logger).Error("failed to persist failed job",
			zap.Error(err), zap.String("job_id", job.ID.String()))
	}
}

// saveJob persists job and publishes the events it raised on the current span
func (s *PrintService) saveJob(ctx context.Context, job *printing.PrintJob) error {
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return err
	}
	for _, e := range job.PullEvents() {
		meta := e.Meta()
		attrs := []attribute.KeyValue{
			attribute.String("event.id", meta.ID.String()),
			attribute.String("job_id", meta.AggregateID.String()),
		}
		if je, ok := e.(*printing.JobEvent); ok {
			attrs = append(attrs, telemetry.AttrJobStatus.String(je.To.String()))
		}
		telemetry.AddEvent(ctx, e.EventName(), attrs...)
		s.logger.Debug("print job event",
			zap.String("event", e.EventName()),
			zap.String("job_id", meta.AggregateID.String()),
			zap.Time("occurred_at", meta.OccurredAt))
	}
	return nil
}

// claimIdempotencyKey marks key as processed. Store errors are logged and
// the submission goes ahead.
func (s *PrintService) claimIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) error {
	if s.idempotency == nil || key == "" {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, tenantID.String()+":"+key, s.config.IdempotencyTTL)
	if err != nil {
		logger.Enrich(ctx, s.logger).Warn("idempotency store unavailable, accepting request",
			zap.Error(err), zap.String("idempotency_key", key))
		return nil
	}
	if !fresh {
		return shared.WrapDomainError("DUPLICATE_REQUEST",
			"A print job was already submitted with this idempotency key", shared.ErrDuplicate)
	}
	return nil
}

// resolveSchema picks the inline schema, the named one, or the default of
// the document type, in that order
func (s *PrintService) resolveSchema(inline *printing.Schema, name string, doc *printing.DocumentContext) (printing.Schema, error) {
	if inline != nil {
		schema := *inline
		if schema.Name == "" {
			schema.Name = "inline"
		}
		if err := schema.Validate(); err != nil {
			return printing.Schema{}, err
		}
		return schema, nil
	}
	if name != "" {
		schema, ok := s.schemas.GetByName(name)
		if !ok {
			return printing.Schema{}, infra.NewRenderError(infra.ErrCodeSchemaNotFound, "schema not found: "+name, nil)
		}
		return schema, nil
	}
	if doc.Document == nil {
		return printing.Schema{}, shared.NewDomainError("INVALID_INPUT", "A schema or a document type is required")
	}
	schema, ok := s.schemas.GetDefault(doc.Document.Type)
	if !ok {
		return printing.Schema{}, infra.NewRenderError(infra.ErrCodeSchemaNotFound,
			"no default schema for document type: "+doc.Document.Type.String(), nil)
	}
	return schema, nil
}

func (s *PrintService) validateContext(doc *printing.DocumentContext) error {
	if err := s.validate.Struct(doc); err != nil {
		return shared.WrapDomainError("INVALID_INPUT", "Invalid document context", err)
	}
	return nil
}

// =============================================================================
// Print Job Operations
// =============================================================================

// GetJob retrieves a print job by ID
func (s *PrintService) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*PrintJobResponse, error) {
	job, err := s.findJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// ListJobs retrieves a paginated list of print jobs
func (s *PrintService) ListJobs(ctx context.Context, tenantID uuid.UUID, req ListJobsRequest) (*ListJobsResponse, error) {
	filter := printing.PrintJobFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		SchemaName: req.SchemaName,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	if req.DocType != "" {
		docType := printing.DocType(req.DocType)
		if !docType.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
		}
		filter.DocumentType = &docType
	}
	if req.Status != "" {
		status := printing.JobStatus(req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid job status")
		}
		filter.Status = &status
	}
	if req.DocumentID != "" {
		id, err := uuid.Parse(req.DocumentID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document ID")
		}
		filter.DocumentID = &id
	}

	jobs, total, err := s.jobRepo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list print jobs: %w", err)
	}

	items := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		items[i] = *toJobResponse(&jobs[i])
	}

	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetJobsByDocument retrieves every print job of one document
func (s *PrintService) GetJobsByDocument(ctx context.Context, tenantID uuid.UUID, docType string, documentID uuid.UUID) ([]PrintJobResponse, error) {
	dt := printing.DocType(docType)
	if !dt.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}

	jobs, err := s.jobRepo.ListByDocument(ctx, tenantID, dt, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get print jobs: %w", err)
	}

	items := make([]PrintJobResponse, len(jobs))
	for i := range jobs {
		items[i] = *toJobResponse(&jobs[i])
	}
	return items, nil
}

// Download opens the stored stream of a job
func (s *PrintService) Download(ctx context.Context, tenantID, jobID uuid.UUID) (*DownloadResult, error) {
	job, err := s.findJob(ctx, tenantID, jobID)
	if err != nil {
		return nil, err
	}
	if !job.HasStream() {
		return nil, shared.NewDomainError("NOT_FOUND", "Print job has no stored stream")
	}

	key := infra.StreamKey(tenantID, job.ID, job.CreatedAt.UTC())
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	return &DownloadResult{
		Reader:   rc,
		Filename: fmt.Sprintf("%s-%s%s", strings.ToLower(job.DocumentType.String()), sanitizeFilename(job.DocumentNumber), infra.StreamExt),
		Size:     job.StreamSize,
	}, nil
}

// OpenStream opens a stored stream by its storage key. Keys outside the
// tenant's prefix read as not found.
func (s *PrintService) OpenStream(ctx context.Context, tenantID uuid.UUID, key string) (*DownloadResult, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, tenantID.String()+"/") || strings.Contains(key, "..") || !strings.HasSuffix(key, infra.StreamExt) {
		return nil, shared.NewDomainError("NOT_FOUND", "Stream not found")
	}

	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Stream not found")
	}
	return &DownloadResult{Reader: rc, Filename: key[strings.LastIndexByte(key, '/')+1:]}, nil
}

// CleanupExpired removes jobs and streams older than the retention period
func (s *PrintService) CleanupExpired(ctx context.Context) (result *CleanupResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, serviceName, "cleanup")
	defer func() { telemetry.EndSpan(span, err) }()

	result = &CleanupResult{}
	if s.config.Retention <= 0 {
		return result, nil
	}

	cutoff := time.Now().Add(-s.config.Retention)
	result.JobsDeleted, err = s.jobRepo.PurgeBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired print jobs: %w", err)
	}
	result.StreamsDeleted, err = s.storage.CleanupOlderThan(ctx, s.config.Retention)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired streams: %w", err)
	}

	logger.Enrich(ctx, s.logger).Info("expired print jobs removed",
		zap.Int64("jobs", result.JobsDeleted),
		zap.Int("streams", result.StreamsDeleted),
		zap.Time("cutoff", cutoff))
	return result, nil
}

func (s *PrintService) findJob(ctx context.Context, tenantID, jobID uuid.UUID) (*printing.PrintJob, error) {
	job, err := s.jobRepo.Get(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Print job not found")
		}
		return nil, fmt.Errorf("failed to get print job: %w", err)
	}
	return job, nil
}

// =============================================================================
// Schema Operations
// =============================================================================

// ListSchemas returns every schema available for rendering
func (s *PrintService) ListSchemas() []SchemaResponse {
	stored := s.schemas.GetAll()
	out := make([]SchemaResponse, len(stored))
	for i, st := range stored {
		out[i] = s.toSchemaResponse(st)
	}
	return out
}

// GetSchema returns the default schema of a document type
func (s *PrintService) GetSchema(docType string) (*SchemaResponse, error) {
	dt := printing.DocType(docType)
	if !dt.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type")
	}
	for _, st := range s.schemas.GetAll() {
		if st.IsDefault && st.Schema.DocumentType == dt {
			resp := s.toSchemaResponse(st)
			return &resp, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "No default schema for this document type")
}

// GetDocumentTypes returns the supported document types
func (s *PrintService) GetDocumentTypes() []DocumentTypeResponse {
	types := printing.AllDocTypes()
	out := make([]DocumentTypeResponse, len(types))
	for i, dt := range types {
		out[i] = DocumentTypeResponse{Code: dt.String()}
		if schema, ok := s.schemas.GetDefault(dt); ok {
			out[i].DefaultSchema = schema.Name
		}
	}
	return out
}

func (s *PrintService) toSchemaResponse(st infra.StoredSchema) SchemaResponse {
	leaves := st.Schema.Leaves()
	registry := s.renderer.Registry()
	var unresolved []string
	for _, leaf := range leaves {
		if !registry.Has(leaf) {
			unresolved = append(unresolved, leaf)
		}
	}
	return SchemaResponse{
		ID:           st.ID,
		Name:         st.Schema.Name,
		DocumentType: st.Schema.DocumentType.String(),
		Description:  st.Schema.Description,
		Steps:        st.Schema.Steps,
		Leaves:       leaves,
		Unresolved:   unresolved,
		IsDefault:    st.IsDefault,
		Source:       st.Source,
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

func toPreviewResponse(r *infra.RenderResult) *PreviewResponse {
	data := r.Bytes()
	resp := &PreviewResponse{
		Schema:     r.Schema,
		Stream:     data,
		Text:       r.Stream.Text(),
		Printed:    r.PrintedText(),
		Size:       len(data),
		Markers:    r.Markers,
		StepErrors: make([]StepErrorDTO, len(r.StepErrors)),
		Visited:    r.Visited,
		Complete:   r.Complete(),
	}
	if resp.Markers == nil {
		resp.Markers = []printing.ErrorMarker{}
	}
	for i, se := range r.StepErrors {
		resp.StepErrors[i] = StepErrorDTO{Step: se.Step, Error: se.Err.Error()}
	}
	if r.Trace != nil {
		entries := r.Trace.Entries()
		resp.Trace = make([]TraceEntryDTO, len(entries))
		for i, e := range entries {
			resp.Trace[i] = TraceEntryDTO{Label: e.Label, Total: e.Total.Seconds(), Delta: e.Delta.Seconds()}
		}
		resp.TraceText = r.Trace.Format()
	}
	return resp
}

func toJobResponse(job *printing.PrintJob) *PrintJobResponse {
	resp := &PrintJobResponse{
		ID:              job.ID.String(),
		TenantID:        job.TenantID.String(),
		SchemaName:      job.SchemaName,
		DocumentType:    string(job.DocumentType),
		DocumentID:      job.DocumentID.String(),
		DocumentNumber:  job.DocumentNumber,
		Status:          string(job.Status),
		Copies:          job.Copies,
		PrinterName:     job.PrinterName,
		StreamURL:       job.StreamURL,
		StreamSize:      job.StreamSize,
		UnresolvedSteps: job.UnresolvedSteps,
		ErrorMessage:    job.ErrorMessage,
		PrintedAt:       job.PrintedAt,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
	}
	if job.PrintedBy != nil {
		resp.PrintedBy = job.PrintedBy.String()
	}
	return resp
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
