package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a favorite lookup finds no matching record.
var ErrNotFound = errors.New("favorite not found")

// Store defines persistence for device favorites.
type Store interface {
	List(ctx context.Context, deviceID string) ([]*Favorite, error)
	Add(ctx context.Context, deviceID, symbol string) (*Favorite, error)
	Remove(ctx context.Context, deviceID, symbol string) error
}

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the favorites store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) List(ctx context.Context, deviceID string) ([]*Favorite, error) {
	var daos []FavoriteDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("device_id = ?", deviceID).
		Order("symbol ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	favorites := make([]*Favorite, len(daos))
	for i := range daos {
		favorites[i] = toFavorite(&daos[i])
	}
	return favorites, nil
}

// Add bookmarks a symbol for a device. Adding an existing favorite is
// a no-op that returns the stored row.
func (s *pgStore) Add(ctx context.Context, deviceID, symbol string) (*Favorite, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	dao := &FavoriteDao{DeviceID: deviceID, Symbol: symbol}
	_, err := s.db.NewInsert().
		Model(dao).
		On("CONFLICT (device_id, symbol) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	if dao.ID == 0 {
		// Conflict path: fetch the existing row.
		err = s.db.NewSelect().
			Model(dao).
			Where("device_id = ? AND symbol = ?", deviceID, symbol).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load favorite: %w", err)
		}
	}
	return toFavorite(dao), nil
}

func (s *pgStore) Remove(ctx context.Context, deviceID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	res, err := s.db.NewDelete().
		Model((*FavoriteDao)(nil)).
		Where("device_id = ? AND symbol = ?", deviceID, symbol).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
