package attendancehandler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/attendance"
	"workportal/internal/domain/auth"
	"workportal/internal/platform/export"
	"workportal/internal/platform/metrics"
	"workportal/internal/transport/http/api"
	"workportal/internal/transport/http/middleware"
	"workportal/internal/transport/http/shared"
)

const managerOnly = "Only managers can view attendance"

type Handler struct {
	Service *attendance.Service
	Perms   middleware.PermissionStore
	Metrics *metrics.Collector
}

func NewHandler(service *attendance.Service, perms middleware.PermissionStore, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance-summary", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequirePermissionWithMessage(auth.PermAttendanceRead, h.Perms, managerOnly))
		r.Get("/", h.handleSummary)
		r.Get("/export/pdf", h.handleExportPDF)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	api.Success(w, summary)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.summary(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteAttendancePDF(&buf, summary); err != nil {
		slog.Warn("attendance pdf failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_error", "Export service temporarily unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.Export("attendance_pdf")
	}
	api.Attachment(w, export.ContentTypePDF, "attendance_"+strings.ReplaceAll(summary.Date, "-", "")+".pdf", buf.Bytes())
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (attendance.Summary, bool) {
	requestID := middleware.GetRequestID(r.Context())
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	v := shared.NewValidator()
	v.OptionalDate("date", date)
	if v.Reject(w, requestID) {
		return attendance.Summary{}, false
	}
	summary, err := h.Service.ForDate(r.Context(), date)
	if err != nil {
		slog.Warn("attendance summary failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "attendance_error", "Attendance service temporarily unavailable", requestID)
		return attendance.Summary{}, false
	}
	return summary, true
}
