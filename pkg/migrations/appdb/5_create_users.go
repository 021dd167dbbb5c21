package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/pgutil/migrations"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/userstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating users table...")
		return mghelper.CreateSchema(ctx, db, &userstore.UserDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping users table...")
		return mghelper.DropTables(ctx, db, &userstore.UserDao{})
	})
}
