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
		log.Println("creating coins table...")
		return mghelper.CreateSchema(ctx, db, &marketstore.CoinDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping coins table...")
		return mghelper.DropTables(ctx, db, &marketstore.CoinDao{})
	})
}
