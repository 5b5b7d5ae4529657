// Package database owns the shared GORM handle used by every repository.
package database

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/sweetshop/config"
)

// DB is the process-wide connection. Tests swap it for an in-memory sqlite
// handle and restore it in cleanup.
var DB *gorm.DB

var dialectors = map[string]func(string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the database named by DB_DRIVER/DATABASE_DSN, tunes the
// pool, and verifies the connection with a ping. Errors are returned rather
// than fatal so the caller decides how to shut down.
func Connect() error {
	driver := config.DatabaseDriver()
	open, ok := dialectors[driver]
	if !ok {
		return fmt.Errorf("database: unknown DB_DRIVER %q (want sqlite, postgres, mysql or sqlserver)", driver)
	}

	db, err := gorm.Open(open(config.DatabaseDSN()), &gorm.Config{
		// SQL logging goes through the slog request logger, not GORM's own.
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("database: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(intSetting("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(intSetting("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	DB = db
	return nil
}

func intSetting(key string, fallback int) int {
	n, err := strconv.Atoi(config.Get(key, strconv.Itoa(fallback)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
