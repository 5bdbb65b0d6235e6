package db

import (
	"course_platform/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Models lists every persisted model in dependency order, leaves first.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Category{},
		&domain.Course{},
		&domain.Chapter{},
		&domain.Section{},
		&domain.CourseEnrollment{},
		&domain.Wallet{},
		&domain.Transaction{},
		&domain.Notification{},
		&domain.Live{},
		&domain.Comment{},
		&domain.Collection{},
		&domain.LearningRecord{},
		&domain.Banner{},
		&domain.SystemSetting{},
	}
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}
