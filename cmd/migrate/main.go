package main

import (
	"course_platform/internal/config" // Custom package for configuration
	"course_platform/internal/db"     // Migration helpers
)

// Runs the schema migration against the configured database
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run AutoMigrate for every model
}
