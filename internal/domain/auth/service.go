package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store       StoreAPI
	Secret      string
	TTL         time.Duration
	AllowSignup bool
	Now         func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration, allowSignup bool) *Service {
	return &Service{Store: store, Secret: secret, TTL: ttl, AllowSignup: allowSignup, Now: time.Now}
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Store.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("find user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Signup creates the account and logs it in.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	if !s.AllowSignup {
		return Session{}, ErrSignupDisabled
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleEmployee
	}
	if !ValidRole(role) {
		return Session{}, ErrInvalidRole
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
		Team:         strings.TrimSpace(in.Team),
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.Store.FindUserByID(ctx, userID)
}

func (s *Service) Managers(ctx context.Context) ([]User, error) {
	return s.Store.ListManagers(ctx)
}

func (s *Service) issue(user User) (Session, error) {
	claims := Claims{UserID: user.ID, Name: user.Name, RoleName: user.Role}
	claims.Subject = user.Email
	token, err := GenerateToken(s.Secret, claims, s.TTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
