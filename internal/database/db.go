package database

import (
	"fmt"

	"diamondtrade/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens the postgres pool and migrates the schema.
func NewConnection(dsn string, log *zap.Logger, quiet bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if quiet {
		level = gormlogger.Silent
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		// The server still starts against an existing schema.
		if log != nil {
			log.Warn("Failed to auto-migrate models", zap.Error(err))
		}
	}

	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
