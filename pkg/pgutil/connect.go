// Package pgutil provides the shared bun/Postgres connection and test
// helpers used by the stores and the migration runner.
package pgutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/config"
)

// ConnectDB opens a bun connection to the configured Postgres database
// and verifies it with a bounded ping.
func ConnectDB(cfg *config.DatabaseConfig) (*bun.DB, error) {
	// Functional options escape special characters in credentials.
	connector := pgdriver.NewConnector(
		pgdriver.WithNetwork("tcp"),
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Database),
		pgdriver.WithInsecure(cfg.SSLMode == "disable"),
	)
	db := bun.NewDB(sql.OpenDB(connector), pgdialect.New())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Database, err)
	}
	return db, nil
}
