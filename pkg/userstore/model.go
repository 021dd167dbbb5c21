package userstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Username      string    `bun:"username,unique,notnull,type:varchar(64)"`
	Email         *string   `bun:"email,type:varchar(255)"`
	PasswordHash  string    `bun:"password_hash,notnull,type:varchar(128)"`
	Role          string    `bun:"role,notnull,type:varchar(16)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// toUserDao converts a user.User to UserDao.
func toUserDao(usr *user.User) *UserDao {
	dao := &UserDao{
		ID:           usr.ID,
		Username:     usr.Username,
		PasswordHash: usr.PasswordHash,
		Role:         usr.Role,
	}
	if usr.Email != "" {
		dao.Email = &usr.Email
	}
	return dao
}

// toUser converts a UserDao to user.User.
func toUser(dao *UserDao) *user.User {
	usr := &user.User{
		ID:           dao.ID,
		Username:     dao.Username,
		PasswordHash: dao.PasswordHash,
		Role:         dao.Role,
		CreatedAt:    dao.CreatedAt,
	}
	if dao.Email != nil {
		usr.Email = *dao.Email
	}
	return usr
}
