package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/auth"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	usr.ID = dao.ID
	return nil
}

func (s *pgStore) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	dao := new(UserDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUser(dao), nil
}

func (s *pgStore) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	dao := new(UserDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUser(dao), nil
}

func (s *pgStore) UserExists(ctx context.Context, username string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check user exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) CountAdmins(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("role = ?", auth.RoleAdmin).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
