package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// newMigrator builds a MySQL migrator reading from path, or from the
// migrations compiled into the binary when path is empty.
func newMigrator(sqlDB *sql.DB, path string) (*migrate.Migrate, error) {
	driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	if path != "" {
		return migrate.NewWithDatabaseInstance("file://"+path, "mysql", driver)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "mysql", driver)
}

// RunMigrations applies all pending MySQL migrations.
func RunMigrations(sqlDB *sql.DB, path string) error {
	m, err := newMigrator(sqlDB, path)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// RollbackMigration reverts the most recent MySQL migration.
func RollbackMigration(sqlDB *sql.DB, path string) error {
	m, err := newMigrator(sqlDB, path)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the history tables from the models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&evaluation.Run{}, &evaluation.Score{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

// Migrate brings the schema up to date: versioned migrations for MySQL,
// model driven migration for SQLite.
func Migrate(db *gorm.DB, driver, path string) error {
	switch driver {
	case DriverMySQL:
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		return RunMigrations(sqlDB, path)
	case DriverSQLite:
		return AutoMigrate(db)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Rollback reverts the most recent migration. Only MySQL keeps versioned
// migrations, so SQLite reports ErrRollbackUnsupported.
func Rollback(db *gorm.DB, driver, path string) error {
	switch driver {
	case DriverMySQL:
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		return RollbackMigration(sqlDB, path)
	case DriverSQLite:
		return ErrRollbackUnsupported
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
