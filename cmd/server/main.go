package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"voyage-plan-service/internal/adapters/repositories"
	"voyage-plan-service/internal/adapters/solver"
	"voyage-plan-service/internal/adapters/weather"
	"voyage-plan-service/internal/api"
	"voyage-plan-service/internal/config"
	"voyage-plan-service/internal/domain"
)

// main is the application composition root.
// It wires concrete adapters (SQLite weather store, branch-and-bound
// selector) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/voyage.db")
	routeSeedPath := config.Get("ROUTE_SEED_PATH", "data/seeds/route.json")
	weatherSeedPath := config.Get("WEATHER_SEED_PATH", "data/seeds/weather.json")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo route/weather on startup for local runs.
	if err := initAndSeed(db, routeSeedPath, weatherSeedPath); err != nil {
		log.Fatal(err)
	}

	src := weather.NewSqliteWeatherStore(db)
	selector := solver.NewBranchBoundSelector()

	cfg, err := voyageConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(src, selector, cfg)

	// Write timeout leaves headroom for rolling-horizon runs over long routes.
	log.Printf("Server listening addr=:%s ship=%q budget=%.0fh", port, cfg.Ship.Name, cfg.TimeBudgetHours)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, routeSeedPath, weatherSeedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedRouteFromJSON(db, routeSeedPath, repositories.SQLite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedWeatherFromJSON(db, weatherSeedPath, repositories.SQLite); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// voyageConfigFromEnv builds the immutable run configuration, overriding
// defaults from the environment.
func voyageConfigFromEnv() (domain.VoyageConfig, error) {
	cfg := domain.DefaultVoyageConfig()

	cfg.Ship.Name = config.Get("SHIP_NAME", cfg.Ship.Name)
	cfg.Ship.DesignSpeedKn = config.GetFloat("SHIP_DESIGN_SPEED_KN", cfg.Ship.DesignSpeedKn)
	cfg.Ship.MinEngineKn = config.GetFloat("SHIP_MIN_ENGINE_KN", cfg.Ship.MinEngineKn)
	cfg.Ship.MaxEngineKn = config.GetFloat("SHIP_MAX_ENGINE_KN", cfg.Ship.MaxEngineKn)
	cfg.Ship.BaseFuelTPH = config.GetFloat("SHIP_BASE_FUEL_TPH", cfg.Ship.BaseFuelTPH)
	cfg.Ship.HotelFuelTPH = config.GetFloat("SHIP_HOTEL_FUEL_TPH", cfg.Ship.HotelFuelTPH)
	cfg.Ship.LengthM = config.GetFloat("SHIP_LENGTH_M", cfg.Ship.LengthM)
	cfg.Ship.DisplacementT = config.GetFloat("SHIP_DISPLACEMENT_T", cfg.Ship.DisplacementT)
	cfg.Ship.WaveDragCoeff = config.GetFloat("SHIP_WAVE_DRAG_COEFF", cfg.Ship.WaveDragCoeff)

	cfg.TimeBudgetHours = config.GetFloat("TIME_BUDGET_HOURS", cfg.TimeBudgetHours)
	cfg.MinGroundKn = config.GetFloat("MIN_GROUND_KN", cfg.MinGroundKn)
	cfg.MaxGroundKn = config.GetFloat("MAX_GROUND_KN", cfg.MaxGroundKn)
	cfg.TimeSlotHours = config.GetFloat("TIME_SLOT_HOURS", cfg.TimeSlotHours)
	cfg.ReplanIntervalHours = config.GetFloat("REPLAN_INTERVAL_HOURS", cfg.ReplanIntervalHours)
	cfg.UseActualNearTerm = config.Get("USE_ACTUAL_NEAR_TERM", "true") == "true"

	if speeds := config.Get("CANDIDATE_SPEEDS_KN", ""); speeds != "" {
		parsed, err := parseSpeeds(speeds)
		if err != nil {
			return domain.VoyageConfig{}, fmt.Errorf("config: CANDIDATE_SPEEDS_KN: %w", err)
		}
		cfg.CandidateSpeedsKn = parsed
	}

	if cfg.TimeBudgetHours <= 0 {
		return domain.VoyageConfig{}, fmt.Errorf("config: TIME_BUDGET_HOURS must be positive, got %.1f", cfg.TimeBudgetHours)
	}
	if cfg.Ship.MinEngineKn >= cfg.Ship.MaxEngineKn {
		return domain.VoyageConfig{}, fmt.Errorf("config: engine bounds inverted: min=%.1f max=%.1f",
			cfg.Ship.MinEngineKn, cfg.Ship.MaxEngineKn)
	}

	return cfg, nil
}

func parseSpeeds(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	speeds := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", p, err)
		}
		speeds = append(speeds, f)
	}
	if len(speeds) == 0 {
		return nil, fmt.Errorf("no speeds given")
	}
	return speeds, nil
}
