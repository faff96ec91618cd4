package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/akozyrev/invoice-scanner/internal/common"
)

// OpenDB connects using the configured driver and migrates the schema.
func OpenDB(cfg common.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}
	if err := db.AutoMigrate(&Scan{}); err != nil {
		return nil, common.WrapError(err, "migrate schema")
	}
	return db, nil
}
