// Package servertest runs the portal API on in-memory stores for client tests.
package servertest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"workportal/internal/app/server"
	"workportal/internal/domain/auth"
	"workportal/internal/platform/config"
)

const Password = "Welcome@123"

type Env struct {
	Server *httptest.Server
	App    *server.App
}

func Config() config.Config {
	return config.Config{
		JWTSecret:          "servertest-secret",
		TokenTTL:           time.Hour,
		Environment:        "test",
		Timezone:           "Asia/Kolkata",
		CORSOrigins:        []string{"*"},
		AllowSelfSignup:    true,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 10000,
	}
}

func Start(t testing.TB) *Env {
	t.Helper()
	app, err := server.New(context.Background(), Config())
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return &Env{Server: srv, App: app}
}

func (e *Env) URL() string { return e.Server.URL }

// Account creates a user directly and returns a bearer token for it.
func (e *Env) Account(t testing.TB, name, email, role, department, team string) string {
	t.Helper()
	session, err := e.App.Auth.Signup(context.Background(), auth.SignupInput{
		Name: name, Email: email, Password: Password, Role: role, Department: department, Team: team,
	})
	if err != nil {
		t.Fatalf("create account %s: %v", email, err)
	}
	return session.AccessToken
}
