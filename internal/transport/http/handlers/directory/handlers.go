package directoryhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/directory"
	"workportal/internal/transport/http/api"
	"workportal/internal/transport/http/middleware"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/departments", h.handleDepartments)
	r.Get("/status-options", h.handleStatusOptions)
	r.Get("/manager-resources", h.handleManagerResources)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (directory.Snapshot, bool) {
	snap, err := h.Service.Snapshot(r.Context())
	if err != nil {
		slog.Warn("load directory failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "directory_error", "Directory service temporarily unavailable", middleware.GetRequestID(r.Context()))
		return directory.Snapshot{}, false
	}
	return snap, true
}

func (h *Handler) handleDepartments(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{
		"departments":         snap.Departments,
		"escalation_managers": snap.Escalation,
	})
}

func (h *Handler) handleStatusOptions(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{"status_options": snap.StatusOptions})
}

func (h *Handler) handleManagerResources(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{"manager_resources": snap.ManagerResources})
}
