package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/favorites"
	mghelper "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating user_favorites table...")
		if err := mghelper.CreateSchema(ctx, db, &favorites.FavoriteDao{}); err != nil {
			return err
		}
		return mghelper.CreateCompositeUniqueIndex(ctx, db, "user_favorites", "device_id", "symbol")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping user_favorites table...")
		return mghelper.DropTables(ctx, db, &favorites.FavoriteDao{})
	})
}
