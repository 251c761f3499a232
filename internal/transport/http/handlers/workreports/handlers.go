package workreportshandler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/audit"
	"workportal/internal/domain/auth"
	"workportal/internal/domain/workreports"
	"workportal/internal/platform/export"
	"workportal/internal/platform/metrics"
	"workportal/internal/transport/http/api"
	"workportal/internal/transport/http/middleware"
	"workportal/internal/transport/http/shared"
)

type Handler struct {
	Service *workreports.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *workreports.Service, perms middleware.PermissionStore, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Metrics: collector}
}

type taskPayload struct {
	Details string `json:"details" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type createRequest struct {
	EmployeeName     string        `json:"employee_name" validate:"required"`
	Department       string        `json:"department" validate:"required"`
	Team             string        `json:"team" validate:"required"`
	ReportingManager string        `json:"reporting_manager" validate:"required"`
	Date             string        `json:"date" validate:"required,datetime=2006-01-02"`
	Tasks            []taskPayload `json:"tasks" validate:"required,min=1,dive"`
}

type updateRequest struct {
	Tasks []taskPayload `json:"tasks" validate:"required,min=1,dive"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/work-reports", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequirePermission(auth.PermReportsSubmit, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/export/csv", h.handleExportCSV)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/export/pdf", h.handleExportPDF)
		r.With(middleware.RequirePermission(auth.PermReportsExport, h.Perms)).Get("/export/xlsx", h.handleExportXLSX)
		r.With(middleware.RequirePermissionWithMessage(auth.PermReportsReview, h.Perms, "Only managers can edit reports")).Put("/{reportID}", h.handleUpdate)
		r.With(middleware.RequirePermissionWithMessage(auth.PermReportsReview, h.Perms, "Only managers can delete reports")).Delete("/{reportID}", h.handleDelete)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	report, err := h.Service.Submit(r.Context(), user, workreports.CreateInput{
		EmployeeName:     payload.EmployeeName,
		Department:       payload.Department,
		Team:             payload.Team,
		ReportingManager: payload.ReportingManager,
		Date:             payload.Date,
		Tasks:            toTasks(payload.Tasks),
	})
	if h.fail(w, r, err, "Work report submission service temporarily unavailable") {
		return
	}
	h.countMutation("submit")
	api.Created(w, map[string]any{
		"message":   "Work report submitted successfully",
		"report_id": report.ID,
		"report":    report,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reports, ok := h.list(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{"reports": reports})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reports, ok := h.list(w, r)
	if !ok {
		return
	}
	api.Success(w, workreports.Summarize(reports))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	reportID := chi.URLParam(r, "reportID")

	var payload updateRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	before, after, err := h.Service.UpdateTasks(r.Context(), user, reportID, toTasks(payload.Tasks))
	if h.fail(w, r, err, "Work report update service temporarily unavailable") {
		return
	}
	h.record(r, user, audit.ActionReportUpdate, reportID, before.Tasks, after.Tasks)
	h.countMutation("update")
	api.Success(w, map[string]any{"message": "Report updated successfully", "report": after})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reportID := chi.URLParam(r, "reportID")

	deleted, err := h.Service.Delete(r.Context(), user, reportID)
	if h.fail(w, r, err, "Work report delete service temporarily unavailable") {
		return
	}
	h.record(r, user, audit.ActionReportDelete, reportID, deleted, nil)
	h.countMutation("delete")
	api.Success(w, map[string]any{"message": "Report deleted successfully"})
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "csv", export.ContentTypeCSV, func(buf *bytes.Buffer, reports []workreports.Report) error {
		return export.WriteCSV(buf, workreports.CSVRows(reports))
	})
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "pdf", export.ContentTypePDF, func(buf *bytes.Buffer, reports []workreports.Report) error {
		return export.WriteReportsPDF(buf, "Work Reports", h.now(), reports)
	})
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "xlsx", export.ContentTypeXLSX, func(buf *bytes.Buffer, reports []workreports.Report) error {
		return export.WriteXLSX(buf, workreports.CSVRows(reports))
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, format, contentType string, render func(*bytes.Buffer, []workreports.Report) error) {
	reports, ok := h.list(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render(&buf, reports); err != nil {
		slog.Warn("export failed", "format", format, "err", err)
		api.Fail(w, http.StatusInternalServerError, "export_error", "Export service temporarily unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	if h.Metrics != nil {
		h.Metrics.Export(format)
	}
	api.Attachment(w, contentType, export.Filename("work_reports", format, h.now()), buf.Bytes())
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) ([]workreports.Report, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	filter, v := parseFilter(r)
	if v.Reject(w, requestID) {
		return nil, false
	}
	reports, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		slog.Warn("list work reports failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "reports_error", "Work reports service temporarily unavailable", requestID)
		return nil, false
	}
	return reports, true
}

func parseFilter(r *http.Request) (workreports.Filter, *shared.Validator) {
	q := r.URL.Query()
	filter := workreports.Filter{
		Department: q.Get("department"),
		Team:       q.Get("team"),
		Manager:    q.Get("manager"),
		FromDate:   q.Get("from_date"),
		ToDate:     q.Get("to_date"),
	}
	v := shared.NewValidator()
	from, fromOK := v.OptionalDate("from_date", filter.FromDate)
	to, toOK := v.OptionalDate("to_date", filter.ToDate)
	if fromOK && toOK {
		v.DateOrder("from_date", from, "to_date", to)
	}
	if fromOK && !from.IsZero() {
		filter.FromDate = from.Format(workreports.DateLayout)
	}
	if toOK && !to.IsZero() {
		filter.ToDate = to.Format(workreports.DateLayout)
	}
	return filter, v
}

// fail maps domain errors to responses and reports whether it wrote one.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, unavailable string) bool {
	if err == nil {
		return false
	}
	requestID := middleware.GetRequestID(r.Context())
	var verr *workreports.ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]shared.ValidationIssue, 0, len(verr.Issues))
		for _, issue := range verr.Issues {
			issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		shared.FailValidation(w, requestID, issues)
	case errors.Is(err, workreports.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "Report not found", requestID)
	case errors.Is(err, workreports.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "Only managers can modify reports", requestID)
	default:
		slog.Warn("work report operation failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "reports_error", unavailable, requestID)
	}
	return true
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, reportID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.Email, action, audit.EntityWorkReport, reportID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) countMutation(op string) {
	if h.Metrics != nil {
		h.Metrics.ReportMutation(op)
	}
}

func (h *Handler) now() time.Time {
	now := time.Now
	if h.Service.Now != nil {
		now = h.Service.Now
	}
	return now().In(h.Service.Location)
}

func toTasks(in []taskPayload) []workreports.Task {
	out := make([]workreports.Task, 0, len(in))
	for _, t := range in {
		out = append(out, workreports.Task{Details: t.Details, Status: t.Status})
	}
	return out
}
