package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "visacli/internal/errors"
	"visacli/internal/middleware"
	"visacli/internal/services"
)

// ReportHandler lists and serves generated report files.
type ReportHandler struct {
	reports *services.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports *services.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.ListReports)
	// Wildcard so nested per-year paths resolve in one route.
	r.Get("/download/*", h.DownloadReport)

	return r
}

// ListReports handles GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListReports(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list reports",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.FileSystemError("report listing", err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   reports,
		"count":  len(reports),
	})
}

// DownloadReport handles GET /api/reports/download/*
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	relPath := chi.URLParam(r, "*")
	if relPath == "" {
		apierrors.WriteError(w, apierrors.ErrMissingParameter)
		return
	}
	if strings.Contains(relPath, "..") {
		apierrors.WriteError(w, apierrors.ErrValidation("filepath",
			"must be a relative path inside the reports directory"))
		return
	}

	fullPath, err := h.reports.ResolveReport(relPath)
	if err != nil {
		h.logger.WarnContext(r.Context(), "report not resolvable",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("path", relPath),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrReportNotFound)
		return
	}

	http.ServeFile(w, r, fullPath)
}
