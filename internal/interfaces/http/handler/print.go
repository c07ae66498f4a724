package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	printingapp "github.com/erp/posprint/internal/application/printing"
	"github.com/erp/posprint/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader deduplicates job submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// PrintService is the application surface the print endpoints call
type PrintService interface {
	Preview(ctx context.Context, tenantID uuid.UUID, req printingapp.PreviewRequest) (*printingapp.PreviewResponse, error)
	Submit(ctx context.Context, tenantID, userID uuid.UUID, req printingapp.SubmitRequest) (*printingapp.SubmitResponse, error)
	Reprint(ctx context.Context, tenantID, jobID uuid.UUID) error
	GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*printingapp.PrintJobResponse, error)
	ListJobs(ctx context.Context, tenantID uuid.UUID, req printingapp.ListJobsRequest) (*printingapp.ListJobsResponse, error)
	GetJobsByDocument(ctx context.Context, tenantID uuid.UUID, docType string, documentID uuid.UUID) ([]printingapp.PrintJobResponse, error)
	Download(ctx context.Context, tenantID, jobID uuid.UUID) (*printingapp.DownloadResult, error)
	OpenStream(ctx context.Context, tenantID uuid.UUID, key string) (*printingapp.DownloadResult, error)
	CleanupExpired(ctx context.Context) (*printingapp.CleanupResult, error)
	ListSchemas() []printingapp.SchemaResponse
	GetSchema(docType string) (*printingapp.SchemaResponse, error)
	GetDocumentTypes() []printingapp.DocumentTypeResponse
}

// PrintHandler handles print-related API endpoints
type PrintHandler struct {
	BaseHandler
	printService PrintService
}

// NewPrintHandler creates a new PrintHandler
func NewPrintHandler(printService PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// =============================================================================
// Rendering
// =============================================================================

// Preview renders a receipt without creating a job.
// POST /print/preview
func (h *PrintHandler) Preview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req printingapp.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	result, err := h.printService.Preview(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Submit renders a receipt, stores it and sends it to the printer.
// POST /print/jobs
func (h *PrintHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User ID not found")
		return
	}

	var req printingapp.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	result, err := h.printService.Submit(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Reprint sends a job's stored stream to the printer again.
// POST /print/jobs/:id/reprint
func (h *PrintHandler) Reprint(c *gin.Context) {
	tenantID, jobID, ok := h.jobParams(c)
	if !ok {
		return
	}

	if err := h.printService.Reprint(c.Request.Context(), tenantID, jobID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"job_id": jobID.String(), "reprinted": true})
}

// =============================================================================
// Print Jobs
// =============================================================================

// GetJob returns a print job.
// GET /print/jobs/:id
func (h *PrintHandler) GetJob(c *gin.Context) {
	tenantID, jobID, ok := h.jobParams(c)
	if !ok {
		return
	}

	result, err := h.printService.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListJobs returns a page of print jobs.
// GET /print/jobs
func (h *PrintHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := printingapp.ListJobsRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	result, err := h.printService.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJobsByDocument returns the jobs printed for one document.
// GET /print/jobs/by-document/:doc_type/:document_id
func (h *PrintHandler) GetJobsByDocument(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	result, err := h.printService.GetJobsByDocument(c.Request.Context(), tenantID, c.Param("doc_type"), documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadStream streams a job's stored ESC/POS bytes.
// GET /print/jobs/:id/stream
func (h *PrintHandler) DownloadStream(c *gin.Context) {
	tenantID, jobID, ok := h.jobParams(c)
	if !ok {
		return
	}

	result, err := h.printService.Download(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendStream(c, result)
}

// GetStream serves a stored stream by its storage key, which is how
// filesystem storage URLs resolve.
// GET /print/streams/*key
func (h *PrintHandler) GetStream(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.printService.OpenStream(c.Request.Context(), tenantID, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendStream(c, result)
}

func (h *PrintHandler) sendStream(c *gin.Context, result *printingapp.DownloadResult) {
	defer result.Reader.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	if result.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(result.Size, 10))
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, result.Reader); err != nil {
		logger.L(c.Request.Context()).Warn("stream download interrupted", zap.Error(err))
	}
}

// Cleanup deletes jobs and streams past the retention period.
// POST /print/maintenance/cleanup
func (h *PrintHandler) Cleanup(c *gin.Context) {
	result, err := h.printService.CleanupExpired(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// =============================================================================
// Schemas and Reference Data
// =============================================================================

// ListSchemas returns every known schema.
// GET /print/schemas
func (h *PrintHandler) ListSchemas(c *gin.Context) {
	h.Success(c, h.printService.ListSchemas())
}

// GetSchema returns the default schema of a document type.
// GET /print/schemas/:doc_type
func (h *PrintHandler) GetSchema(c *gin.Context) {
	result, err := h.printService.GetSchema(c.Param("doc_type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetDocumentTypes returns the printable document types.
// GET /print/document-types
func (h *PrintHandler) GetDocumentTypes(c *gin.Context) {
	h.Success(c, h.printService.GetDocumentTypes())
}

func (h *PrintHandler) jobParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, jobID, true
}
