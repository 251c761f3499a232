package auth

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	Team         string    `json:"team"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}

// UserContext is the authenticated caller attached to a request context.
type UserContext struct {
	UserID     string
	Name       string
	Email      string
	RoleName   string
	Department string
	Team       string
}

func (u UserContext) IsManager() bool {
	return u.RoleName == RoleManager
}

func ContextFromUser(u User) UserContext {
	return UserContext{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		RoleName:   u.Role,
		Department: u.Department,
		Team:       u.Team,
	}
}

type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	Team       string
}

type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
