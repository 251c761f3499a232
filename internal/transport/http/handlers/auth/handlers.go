package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"

	"workportal/internal/domain/auth"
	"workportal/internal/platform/metrics"
	"workportal/internal/transport/http/api"
	"workportal/internal/transport/http/middleware"
	"workportal/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Metrics *metrics.Collector
}

func NewHandler(service *auth.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Metrics: collector}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=employee manager"`
	Department string `json:"department"`
	Team       string `json:"team"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/signup", h.HandleSignup)
		r.With(middleware.RequireAuth).Get("/me", h.HandleMe)
		r.With(middleware.RequireAuth).Post("/logout", h.HandleLogout)
	})
	r.With(middleware.RequireAuth).Get("/managers", h.HandleManagers)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if h.Metrics != nil {
		h.Metrics.Login(err == nil)
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", requestID)
		return
	}
	if err != nil {
		slog.Warn("login failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "login_error", "Login service temporarily unavailable", requestID)
		return
	}
	api.Success(w, session)
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload signupRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if err := validatePassword(payload.Password); err != nil && payload.Password != "" {
		v.Add("password", err.Error())
	}
	if v.Reject(w, requestID) {
		return
	}

	session, err := h.Service.Signup(r.Context(), auth.SignupInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   payload.Password,
		Role:       payload.Role,
		Department: payload.Department,
		Team:       payload.Team,
	})
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "email_taken", "Email already registered", requestID)
		return
	case errors.Is(err, auth.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_role", "Role must be employee or manager", requestID)
		return
	case errors.Is(err, auth.ErrSignupDisabled):
		api.Fail(w, http.StatusForbidden, "signup_disabled", "Self sign-up is disabled", requestID)
		return
	case err != nil:
		slog.Warn("signup failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "signup_error", "Signup service temporarily unavailable", requestID)
		return
	}
	api.Success(w, session)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	account, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "Could not validate credentials", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, account)
}

// HandleLogout is stateless: tokens are discarded client-side.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"})
}

type managerEntry struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Team       string `json:"team"`
}

func (h *Handler) HandleManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.Service.Managers(r.Context())
	if err != nil {
		slog.Warn("list managers failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "managers_error", "Managers service temporarily unavailable", middleware.GetRequestID(r.Context()))
		return
	}
	out := make([]managerEntry, 0, len(managers))
	for _, m := range managers {
		out = append(out, managerEntry{Name: m.Name, Email: m.Email, Department: m.Department, Team: m.Team})
	}
	api.Success(w, map[string]any{"managers": out})
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("must include upper and lower case letters and a number")
	}
	if strings.TrimSpace(password) != password {
		return errors.New("must not start or end with spaces")
	}
	return nil
}
