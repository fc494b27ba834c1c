package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymovoo/workout-engine/internal/api"
	"gymovoo/workout-engine/internal/config"
	"gymovoo/workout-engine/internal/planner"
	"gymovoo/workout-engine/internal/repository/mongo"
	"gymovoo/workout-engine/internal/service"
	"gymovoo/workout-engine/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title GYMovoo Workout Plan API
// @version 1.0
// @description Generates, stores and exports personalized workout plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting GYMovoo workout engine...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatalf("FATAL: jwt.secret is not configured")
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage (optional: exports and the s3 catalog source need it) ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: s3.bucket_name is empty, plan exports are disabled")
	}

	// --- Initialize Repositories ---
	planRepo := mongo.NewMongoPlanSlotRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)

	// --- Exercise Catalog ---
	catalogCtx, cancelCatalog := context.WithTimeout(context.Background(), 30*time.Second)
	exerciseCatalog, err := service.LoadCatalog(catalogCtx, cfg.Catalog, fileStorage, exerciseRepo)
	cancelCatalog()
	if err != nil {
		log.Fatalf("FATAL: Could not load exercise catalog from %s: %v", cfg.Catalog.Source, err)
	}
	log.Printf("INFO: Loaded %d exercises from %s catalog", exerciseCatalog.Len(), cfg.Catalog.Source)

	// --- Initialize Services ---
	engine := planner.NewEngine(exerciseCatalog, planner.WithLogger(logger.With("component", "planner")))
	observer := service.NewLogUseCaseObserver(logger)
	planService := service.NewPlanService(engine, planRepo, profileRepo, fileStorage, service.PlanServiceConfig{
		ExportExpiry: cfg.Plans.ExportExpiry,
		ExportPrefix: cfg.Plans.ExportPrefix,
	}, observer)
	catalogService := service.NewCatalogService(engine)

	// --- Initialize Gin Engine ---
	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, planService, catalogService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting.")
}
