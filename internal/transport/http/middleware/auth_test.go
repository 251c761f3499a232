package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workportal/internal/domain/auth"
)

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	claims := auth.Claims{UserID: "u1", Name: "Tejaswini", RoleName: auth.RoleManager}
	claims.Subject = "tejaswini@example.com"
	token, err := auth.GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token := signedToken(t, secret)

	called := false
	handler := Auth(secret, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.RoleName != auth.RoleManager || user.Email != "tejaswini@example.com" {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("handler not called")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

type lookupFunc func(ctx context.Context, id string) (auth.User, error)

func (f lookupFunc) Me(ctx context.Context, id string) (auth.User, error) { return f(ctx, id) }

func TestAuthMiddlewareLoadsProfile(t *testing.T) {
	secret := "test-secret"
	token := signedToken(t, secret)
	users := lookupFunc(func(_ context.Context, id string) (auth.User, error) {
		if id != "u1" {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{ID: "u1", Name: "Tejaswini Ch", Email: "tejaswini@example.com", Role: auth.RoleManager, Department: "HR", Team: "HR"}, nil
	})

	handler := Auth(secret, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || user.Department != "HR" || user.Name != "Tejaswini Ch" {
			t.Fatalf("expected profile fields, got %+v", user)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestAuthMiddlewareDropsDeletedUser(t *testing.T) {
	secret := "test-secret"
	token := signedToken(t, secret)
	users := lookupFunc(func(context.Context, string) (auth.User, error) {
		return auth.User{}, errors.New("gone")
	})

	handler := Auth(secret, users)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	guarded := RequirePermissionWithMessage(auth.PermReportsReview, auth.StaticPermissions{}, "Only managers can edit reports")(ok)

	tests := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "employee", user: &auth.UserContext{UserID: "e1", RoleName: auth.RoleEmployee}, want: http.StatusForbidden},
		{name: "manager", user: &auth.UserContext{UserID: "m1", RoleName: auth.RoleManager}, want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/work-reports/r1", nil)
			if tc.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), ctxKeyUser, *tc.user))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
