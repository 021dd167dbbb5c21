// Package appdb holds all the migrations for the dashboard database
package appdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the dashboard database
var Migrations = migrate.NewMigrations()
