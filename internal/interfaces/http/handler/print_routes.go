package handler

import (
	"net/http"

	"github.com/erp/posprint/internal/interfaces/http/middleware"
	"github.com/erp/posprint/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// MaintainPermission guards the maintenance endpoints
const MaintainPermission = "print:maintain"

// PrintRoutes lists the print endpoints, all behind authMiddleware
func PrintRoutes(h *PrintHandler, authMiddleware gin.HandlerFunc) *router.Group {
	maintain := []gin.HandlerFunc{middleware.RequireAnyPermission(MaintainPermission)}

	return &router.Group{
		Prefix:     "/print",
		Middleware: []gin.HandlerFunc{authMiddleware},
		Routes: []router.Route{
			{Method: http.MethodPost, Path: "/preview", Handler: h.Preview},

			{Method: http.MethodPost, Path: "/jobs", Handler: h.Submit},
			{Method: http.MethodGet, Path: "/jobs", Handler: h.ListJobs},
			{Method: http.MethodGet, Path: "/jobs/:id", Handler: h.GetJob},
			{Method: http.MethodGet, Path: "/jobs/:id/stream", Handler: h.DownloadStream},
			{Method: http.MethodPost, Path: "/jobs/:id/reprint", Handler: h.Reprint},
			{Method: http.MethodGet, Path: "/jobs/by-document/:doc_type/:document_id", Handler: h.GetJobsByDocument},
			{Method: http.MethodGet, Path: "/streams/*key", Handler: h.GetStream},

			{Method: http.MethodGet, Path: "/schemas", Handler: h.ListSchemas},
			{Method: http.MethodGet, Path: "/schemas/:doc_type", Handler: h.GetSchema},
			{Method: http.MethodGet, Path: "/document-types", Handler: h.GetDocumentTypes},

			{Method: http.MethodPost, Path: "/maintenance/cleanup", Handler: h.Cleanup, Guards: maintain},
		},
	}
}
