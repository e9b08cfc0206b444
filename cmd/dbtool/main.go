package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"trip-planner-service/internal/adapters/cache"
	"trip-planner-service/internal/adapters/storage"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/places.json")
	initAndSeed(conn, seedPath)
}

func initAndSeed(conn *sql.DB, seedPath string) {
	log.Println("Initializing database schema...")
	if err := storage.InitSchema(conn, db.Postgres); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding place cache...")
	n, err := storage.SeedPlacesFromJSON(context.Background(), cache.NewSQLPlaceCache(conn), seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. places=%d", n)
}
