package userstore

import (
	"context"
	"errors"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user"
)

// ErrUserNotFound is returned when a user lookup finds no matching record.
var ErrUserNotFound = errors.New("user not found")

// Store defines the interface for account persistence.
type Store interface {
	CreateUser(ctx context.Context, user *user.User) error
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	UserExists(ctx context.Context, username string) (bool, error)
	CountAdmins(ctx context.Context) (int, error)
}
