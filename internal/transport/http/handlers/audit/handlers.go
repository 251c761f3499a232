package audithandler

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/audit"
	"workportal/internal/domain/auth"
	"workportal/internal/transport/http/api"
	"workportal/internal/transport/http/middleware"
	"workportal/internal/transport/http/shared"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	managerOnly  = "Only managers can view the audit trail"
)

type Handler struct {
	Service *audit.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *audit.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequirePermissionWithMessage(auth.PermAuditRead, h.Perms, managerOnly))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) (audit.Filter, int, bool) {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     strings.ToLower(strings.TrimSpace(q.Get("action"))),
		EntityType: strings.ToLower(strings.TrimSpace(q.Get("entity_type"))),
		EntityID:   strings.TrimSpace(q.Get("entity_id")),
	}
	limit := defaultLimit
	v := shared.NewValidator()
	v.Enum("action", filter.Action, []string{audit.ActionReportUpdate, audit.ActionReportDelete}, "must be report.update or report.delete")
	v.Enum("entity_type", filter.EntityType, []string{audit.EntityWorkReport}, "must be work_report")
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			v.Add("limit", "must be a positive integer")
		} else {
			limit = min(n, maxLimit)
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return audit.Filter{}, 0, false
	}
	return filter, limit, true
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter, limit, ok := h.parse(w, r)
	if !ok {
		return
	}
	events, err := h.Service.List(r.Context(), filter, limit)
	if err != nil {
		slog.Warn("audit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(events)))
	api.Success(w, events)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	filter, _, ok := h.parse(w, r)
	if !ok {
		return
	}
	events, err := h.Service.List(r.Context(), filter, maxLimit)
	if err != nil {
		slog.Warn("audit export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_email", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{evt.ID, evt.ActorEmail, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
