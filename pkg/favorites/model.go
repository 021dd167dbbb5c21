// Package favorites stores per-device coin bookmarks. Favorites are
// keyed by an opaque client-generated device id and need no account.
package favorites

import (
	"time"

	"github.com/uptrace/bun"
)

// Favorite is one device's bookmark of one coin symbol.
type Favorite struct {
	ID        int64     `json:"id"`
	DeviceID  string    `json:"device_id"`
	Symbol    string    `json:"symbol"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteDao is a data access object that maps directly to the
// 'user_favorites' table in PostgreSQL. Uniqueness over
// (device_id, symbol) is enforced by a migration-created index.
type FavoriteDao struct {
	bun.BaseModel `bun:"table:user_favorites,alias:uf"`
	ID            int64     `bun:"id,pk,autoincrement"`
	DeviceID      string    `bun:"device_id,notnull,type:varchar(128)"`
	Symbol        string    `bun:"symbol,notnull,type:varchar(32)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

func toFavorite(dao *FavoriteDao) *Favorite {
	return &Favorite{
		ID:        dao.ID,
		DeviceID:  dao.DeviceID,
		Symbol:    dao.Symbol,
		CreatedAt: dao.CreatedAt,
	}
}
