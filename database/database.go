// Package database opens the history database and keeps its schema current.
package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverNone   = "none"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var (
	// ErrUnknownDriver is returned for a driver other than sqlite or mysql.
	ErrUnknownDriver = errors.New("unknown database driver")

	// ErrDisabled is returned when the history database is switched off.
	ErrDisabled = errors.New("history database is disabled")

	// ErrRollbackUnsupported is returned when rolling back a model migrated schema.
	ErrRollbackUnsupported = errors.New("rollback is only supported for mysql")
)

// Config holds database connection settings.
type Config struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
}

// Enabled reports whether a history database is configured.
func (c Config) Enabled() bool {
	return c.Driver != "" && c.Driver != DriverNone
}

// DSN returns the MySQL data source name. Multi statements are enabled
// so each migration file can hold several statements.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Connect opens the database described by cfg.
func Connect(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "wcx.db"
		}
		dialector = sqlite.Open(path)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case "", DriverNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}
