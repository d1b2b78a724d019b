package data

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations
var migrationsFS embed.FS

var gooseDialects = map[string]string{
	DriverPostgres: "postgres",
	DriverSQLite:   "sqlite3",
	DriverMySQL:    "mysql",
}

// RunMigrations applies the embedded migrations for driver
func RunMigrations(ctx context.Context, db *gorm.DB, driver string) error {
	driver = driverName(driver)
	dialect, ok := gooseDialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, path.Join("migrations", driver)); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
