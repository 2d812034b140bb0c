package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// MemoryPath opens a private in-memory database, used by tests.
const MemoryPath = ":memory:"

var DB *gorm.DB

// Initialize opens the card database at dbPath, migrates the schema and runs
// data migrations. The handle is also kept for GetDB.
func Initialize(dbPath string, log *logger.Logger, debug bool) (*gorm.DB, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open card database: %w", err)
	}
	if dbPath == MemoryPath {
		// Each pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("card database connected", "path", dbPath)

	if err := db.AutoMigrate(&models.CardRow{}, &models.CardLocalization{}); err != nil {
		return nil, fmt.Errorf("migrate card database: %w", err)
	}
	if err := RunMigrations(db, log); err != nil {
		return nil, err
	}

	log.Info("card database migration completed")
	DB = db
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}
