package pgutil

import (
	"context"
	"testing"
	"time"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

// SetupTestDB starts a disposable PostgreSQL container and returns a
// bun connection to it plus a cleanup func. Callers own the schema;
// the database starts empty.
func SetupTestDB(t *testing.T) (*bun.DB, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dashboard_test"),
		postgres.WithUsername("dashboard"),
		postgres.WithPassword("dashboard"),
		testcontainers.WithWaitStrategy(
			// The init scripts restart the server once, so wait for the
			// second ready line.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		t.Fatalf("failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "dashboard",
		Password: "dashboard",
		Database: "dashboard_test",
		SSLMode:  "disable",
	}

	// The container can report ready slightly before it accepts
	// connections, so retry with backoff.
	var db *bun.DB
	const maxRetries = 10
	for i := 0; i < maxRetries; i++ {
		db, err = ConnectDB(cfg)
		if err == nil {
			break
		}
		if i == maxRetries-1 {
			_ = testcontainers.TerminateContainer(container)
			t.Fatalf("failed to connect to test database after %d attempts: %v", maxRetries, err)
		}
		time.Sleep(time.Duration(100*(1<<uint(i))) * time.Millisecond)
	}

	cleanup := func() {
		_ = db.Close()
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}
	return db, cleanup
}

// AssertTableExists fails the test when the named table is missing.
func AssertTableExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()

	exists, err := tableExists(db, tableName)
	if err != nil {
		t.Fatalf("failed to check if table %s exists: %v", tableName, err)
	}
	if !exists {
		t.Errorf("table %s does not exist", tableName)
	}
}

// AssertTableNotExists fails the test when the named table is present.
func AssertTableNotExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()

	exists, err := tableExists(db, tableName)
	if err != nil {
		t.Fatalf("failed to check if table %s exists: %v", tableName, err)
	}
	if exists {
		t.Errorf("table %s should not exist but it does", tableName)
	}
}

func tableExists(db *bun.DB, tableName string) (bool, error) {
	var exists bool
	err := db.NewSelect().
		ColumnExpr("EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?)", "public", tableName).
		Scan(context.Background(), &exists)
	return exists, err
}

// AssertIndexExists fails the test when the named index is missing.
func AssertIndexExists(t *testing.T, db *bun.DB, indexName string) {
	t.Helper()

	var exists bool
	err := db.NewSelect().
		ColumnExpr("EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname = ? AND indexname = ?)", "public", indexName).
		Scan(context.Background(), &exists)
	if err != nil {
		t.Fatalf("failed to check if index %s exists: %v", indexName, err)
	}
	if !exists {
		t.Errorf("index %s does not exist", indexName)
	}
}

// AssertRowCount fails the test when the table row count differs.
func AssertRowCount(t *testing.T, db *bun.DB, tableName string, expected int) {
	t.Helper()

	var count int
	err := db.NewSelect().
		TableExpr("?", bun.Ident(tableName)).
		ColumnExpr("COUNT(*)").
		Scan(context.Background(), &count)
	if err != nil {
		t.Fatalf("failed to count rows in table %s: %v", tableName, err)
	}
	if count != expected {
		t.Errorf("table %s: expected %d rows, got %d", tableName, expected, count)
	}
}
