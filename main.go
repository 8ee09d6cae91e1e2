package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trace-quest-engine/handlers"
	"trace-quest-engine/middleware"
	"trace-quest-engine/models"
	"trace-quest-engine/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
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
		&models.Product{},
		&models.Stage{},
		&models.Breakdown{},
		&models.Claim{},
		&models.Evidence{},
		&models.Player{},
		&models.Mission{},
		&models.Badge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if os.Getenv("SEED_CATALOG") == "1" {
		if err := services.SeedCatalog(db); err != nil {
			log.Fatal("failed to seed demo catalog:", err)
		}
	}

	tokenSecret := os.Getenv("MISSION_TOKEN_SECRET")
	if tokenSecret == "" {
		log.Fatal("MISSION_TOKEN_SECRET environment variable not set")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	catalogService := services.NewCatalogService(db)
	missionService := services.NewMissionService(catalogService, rng)
	progressService := services.NewProgressService(db)
	badgeService := services.NewBadgeService(db)
	tokenService := services.NewMissionTokenService([]byte(tokenSecret))
	questService := services.NewQuestService(db, catalogService, missionService, progressService, badgeService, tokenService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	questService.StartReconcileScheduler(10 * time.Minute)

	handlers.SetupQuestRoutes(app, questService)
	handlers.SetupCatalogRoutes(app, catalogService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Points reconciliation job running (every 10m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
