package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/marketstore"
	mghelper "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating trending_coins table...")
		if err := mghelper.CreateSchema(ctx, db, &marketstore.TrendingCoinDao{}); err != nil {
			return err
		}
		return mghelper.CreateCompositeUniqueIndex(ctx, db, "trending_coins", "date", "symbol")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping trending_coins table...")
		return mghelper.DropTables(ctx, db, &marketstore.TrendingCoinDao{})
	})
}
