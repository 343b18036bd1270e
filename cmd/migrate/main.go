package main

import (
	"log"
	"os"

	"chowbot-be/internal/model"
	"chowbot-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate does not handle
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed pre-migration step (%s): %v", sql, err)
		}
	}

	// 4. AutoMigrate schema
	log.Println("Step 2: Migrating tables...")
	if err := db.AutoMigrate(
		&model.Conversation{},
		&model.Order{},
	); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	// 5. Post-Migration: constraints
	log.Println("Step 3: Setting up Constraints...")

	constraintSQL := []string{
		// One pending order per session, enforced by the database so racing
		// replicas cannot both create one. Also declared on the model; this
		// back-fills databases migrated before the index existed.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_pending_per_session
			ON orders (session_id) WHERE status = 'pending';`,
	}

	for _, sql := range constraintSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Fatalf("Error: Failed post-migration step (%s): %v", sql, err)
		}
	}

	log.Println("✅ Migration completed successfully")
}
