package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"guild-series-tracker/handlers"
	"guild-series-tracker/models"
	"guild-series-tracker/services"
	"guild-series-tracker/splinterlands"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOriginsString,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Service-Token",
		MaxAge:       86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.TournamentEvent{},
		&models.PlayerResult{},
		&models.PointScheme{},
		&models.IngestState{},
		&models.Organizer{},
		&models.SeriesConfig{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedPointSchemes(db); err != nil {
		log.Fatal("failed to seed point schemes:", err)
	}
	seedOrganizers(db)

	apiClient := splinterlands.NewClient(os.Getenv("SPLINTERLANDS_API_URL"))

	ingestService := services.NewIngestService(db, apiClient)
	schemeCatalog := &services.SchemeCatalog{DB: db}
	leaderboardService := services.NewLeaderboardService(db, schemeCatalog)
	seriesService := services.NewSeriesService(db, leaderboardService)
	organizerService := services.NewOrganizerService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	intervalMinutes := envInt("INGEST_INTERVAL_MINUTES", 60)
	windowDays := envInt("INGEST_WINDOW_DAYS", 3)
	if intervalMinutes > 0 {
		scheduler, err := services.StartIngestScheduler(ingestService, time.Duration(intervalMinutes)*time.Minute, windowDays)
		if err != nil {
			log.Fatal("failed to start ingest scheduler:", err)
		}
		defer scheduler.Shutdown()
	} else {
		log.Println("⚠️  INGEST_INTERVAL_MINUTES is 0, scheduled ingestion disabled")
	}

	handlers.SetupRoutes(app, ingestService, leaderboardService, seriesService, organizerService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// seedOrganizers registers the comma-separated INGEST_ORGANIZERS list
// without disturbing rows operators have edited.
func seedOrganizers(db *gorm.DB) {
	raw := os.Getenv("INGEST_ORGANIZERS")
	if raw == "" {
		return
	}

	var organizers []models.Organizer
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			organizers = append(organizers, models.Organizer{Username: name, Active: true})
		}
	}
	if len(organizers) == 0 {
		return
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&organizers).Error
	if err != nil {
		log.Printf("Failed to seed organizers: %v", err)
		return
	}
	log.Printf("✅ Seeded %d organizer(s) from INGEST_ORGANIZERS", len(organizers))
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a number, using %d", key, raw, fallback)
		return fallback
	}
	return n
}
