package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahazfernando/aussie-ops-financials/internal/database"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}
	defer pool.Close()

	log.Println("Applying migrations...")
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("error applying migrations: %v", err)
	}

	log.Println("Migrations applied successfully")
}
