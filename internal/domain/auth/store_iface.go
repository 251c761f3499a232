package auth

import "context"

type StoreAPI interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, user User) error
	ListManagers(ctx context.Context) ([]User, error)
}
