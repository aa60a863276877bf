package dbhelper

import (
	"fmt"
	"os"
	"time"

	"wardrobeapi/models"
	"wardrobeapi/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to postgres using the DB_* environment variables.
func OpenDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			services.GetEnv("DB_USERNAME", ""),
			services.GetEnv("DB_PASSWORD", ""),
			services.GetEnv("DB_HOST", "localhost"),
			services.GetEnv("DB_PORT", "5432"),
			services.GetEnv("DB_NAME", ""),
		),
	), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	return db, nil
}

func SetupDB() *gorm.DB {
	db, err := OpenDB()
	if err != nil {
		panic(err)
	}
	Migrate(db, &models.ClosetItem{})
	Migrate(db, &models.SavedOutfit{})
	return db
}

// SetupTestDB points the connection at the local test database. It returns
// nil when postgres is not reachable so callers can skip.
func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", services.GetEnv("TEST_DB_USERNAME", "wardrobe"))
	os.Setenv("DB_PASSWORD", services.GetEnv("TEST_DB_PASSWORD", "wardrobe"))
	os.Setenv("DB_HOST", services.GetEnv("TEST_DB_HOST", "localhost"))
	os.Setenv("DB_NAME", services.GetEnv("TEST_DB_NAME", "wardrobe_test"))
	os.Setenv("DB_PORT", services.GetEnv("TEST_DB_PORT", "5432"))
	db, err := OpenDB()
	if err != nil {
		return nil
	}
	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		return nil
	}
	Migrate(db, &models.ClosetItem{})
	Migrate(db, &models.SavedOutfit{})
	return db
}
