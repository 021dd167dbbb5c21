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
		log.Println("creating daily_metrics table...")
		if err := mghelper.CreateSchema(ctx, db, &marketstore.DailyMetricDao{}); err != nil {
			return err
		}
		// One row per coin per day; backstops the find-then-write upsert.
		if err := mghelper.CreateCompositeUniqueIndex(ctx, db, "daily_metrics", "coin_id", "date"); err != nil {
			return err
		}
		return mghelper.CreateIndexes(ctx, db, "daily_metrics", "date")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping daily_metrics table...")
		return mghelper.DropTables(ctx, db, &marketstore.DailyMetricDao{})
	})
}
