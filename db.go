package main

import (
	"fmt"
	"time"

	"khaata/pkg/logger"
	"khaata/store"

	"golang.org/x/exp/slog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openDB connects to the configured database and, when enabled, migrates the
// schema. The returned handle lives for the whole process; release it with closeDB.
func openDB(cfg DBConfig, log *slog.Logger) (*gorm.DB, error) {
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(dsn)
	}

	gormLogger := gormlogger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if cfg.AutoMigrate {
		if err := store.New(db).Migrate(); err != nil {
			// permission errors on a managed database should not block startup
			log.Warn("migration warning", logger.Err(err))
		}
	}
	log.Info("database connected", slog.String("driver", cfg.Driver))
	return db, nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
