package main

import (
	"flag"
	"log"

	"lexibot/internal/config"
	"lexibot/internal/database"
	"lexibot/internal/logger"
)

func main() {
	dir := flag.String("dir", "database/migrations", "migrations directory")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewSQLXSqliteDB(cfg.DB.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, *dir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Migrations applied to %s", cfg.DB.Path)
}
