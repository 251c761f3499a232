// Package session holds the signed-in identity of the CLI and the bearer
// credential every authorized call carries.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"workportal/internal/client"
	"workportal/internal/domain/auth"
	"workportal/internal/portal/localstore"
)

var ErrNotAuthenticated = errors.New("not authenticated")

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Result is the outcome of Login or Signup. Failures are never returned as
// errors; Message carries what to show.
type Result struct {
	OK      bool
	Message string
}

type Profile struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	Team       string
}

type Manager struct {
	api *client.Client
	kv  localstore.KV

	mu    sync.RWMutex
	token string
	user  *auth.User
}

func New(api *client.Client, kv localstore.KV) *Manager {
	if kv == nil {
		kv = localstore.NewMemory()
	}
	return &Manager{api: api, kv: kv}
}

// Restore resolves a stored credential into an identity. Any failure drops
// the credential and leaves the manager signed out.
func (m *Manager) Restore(ctx context.Context) {
	token, ok := m.kv.Get(localstore.KeyToken)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return
	}
	user, err := m.api.WithBearer(token).Me(ctx)
	if err != nil {
		slog.Debug("stored credential rejected", "err", err)
		m.Logout()
		return
	}
	m.mu.Lock()
	m.token = token
	m.user = &user
	m.mu.Unlock()
}

func (m *Manager) Login(ctx context.Context, email, password string) Result {
	session, err := m.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Result{Message: client.Detail(err, "Login failed")}
	}
	return m.adopt(session, "Login successful")
}

// Signup creates the account and signs in with it.
func (m *Manager) Signup(ctx context.Context, p Profile) Result {
	session, err := m.api.Signup(ctx, client.SignupRequest{
		Name:       strings.TrimSpace(p.Name),
		Email:      strings.TrimSpace(p.Email),
		Password:   p.Password,
		Role:       p.Role,
		Department: strings.TrimSpace(p.Department),
		Team:       strings.TrimSpace(p.Team),
	})
	if err != nil {
		return Result{Message: client.Detail(err, "Signup failed")}
	}
	return m.adopt(session, "Signup successful")
}

func (m *Manager) adopt(session auth.Session, message string) Result {
	if err := m.kv.Set(localstore.KeyToken, session.AccessToken); err != nil {
		slog.Warn("persist credential failed", "err", err)
	}
	user := session.User
	m.mu.Lock()
	m.token = session.AccessToken
	m.user = &user
	m.mu.Unlock()
	return Result{OK: true, Message: message}
}

// Logout forgets the credential and identity. It makes no network call.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()
	if err := m.kv.Delete(localstore.KeyToken); err != nil {
		slog.Warn("clear credential failed", "err", err)
	}
}

func (m *Manager) Identity() (auth.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return auth.User{}, false
	}
	return *m.user, true
}

func (m *Manager) IsManager() bool {
	user, ok := m.Identity()
	return ok && user.IsManager()
}

// Authorized returns a client carrying the bearer credential.
func (m *Manager) Authorized() (*client.Client, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return m.api.WithBearer(token), nil
}

// Observe signs out when err is an authentication failure and returns err.
func (m *Manager) Observe(err error) error {
	if client.IsUnauthorized(err) {
		m.Logout()
	}
	return err
}

// Public is the unauthenticated client for directory lookups.
func (m *Manager) Public() *client.Client {
	return m.api
}

func (m *Manager) Theme() string {
	if theme, ok := m.kv.Get(localstore.KeyTheme); ok && theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (m *Manager) SetTheme(theme string) error {
	switch theme {
	case ThemeLight, ThemeDark:
		return m.kv.Set(localstore.KeyTheme, theme)
	default:
		return errors.New("theme must be light or dark")
	}
}
