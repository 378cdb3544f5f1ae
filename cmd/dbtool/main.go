package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"voyage-plan-service/internal/adapters/repositories"
	"voyage-plan-service/internal/config"
	"voyage-plan-service/internal/platform/db"
)

// dbtool initializes the route/weather schema in the shared postgres
// instance and loads seed data, for deployments where the weather collector
// writes to postgres instead of a local sqlite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	routeSeedPath := config.Get("ROUTE_SEED_PATH", "data/seeds/route.json")
	weatherSeedPath := config.Get("WEATHER_SEED_PATH", "data/seeds/weather.json")
	if err := initAndSeed(db, routeSeedPath, weatherSeedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, routeSeedPath, weatherSeedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("dbtool: init schema: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding route and weather tables...")
	if err := repositories.SeedRouteFromJSON(db, routeSeedPath, repositories.Postgres); err != nil {
		return fmt.Errorf("dbtool: seed route: %w", err)
	}
	if err := repositories.SeedWeatherFromJSON(db, weatherSeedPath, repositories.Postgres); err != nil {
		return fmt.Errorf("dbtool: seed weather: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
