package main

import (
	"context"
	"errors"
	"fitlog/fitness-tracker/internal/api"
	"fitlog/fitness-tracker/internal/config"
	"fitlog/fitness-tracker/internal/repository/mongo"
	"fitlog/fitness-tracker/internal/service"
	"fitlog/fitness-tracker/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting Fitness Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	log.Info("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info("Database connection established.")

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		mongo.EnsureExerciseLogIndexes(ctx, appDB.Collection("exercise_logs"))
		mongo.EnsureGoalIndexes(ctx, appDB.Collection("goals"))
		mongo.EnsureWorkoutPlanIndexes(ctx, appDB.Collection("workout_plans"))
		log.Info("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	logRepo := mongo.NewMongoExerciseLogRepository(appDB)
	goalRepo := mongo.NewMongoGoalRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo)
	sessionService := service.NewSessionService(sessionRepo, logRepo, userRepo, planRepo, time.Now)
	logService := service.NewExerciseLogService(logRepo, sessionRepo, exerciseRepo, time.Now)
	metricsService := service.NewMetricsService(logRepo, sessionRepo, time.Now)
	goalService := service.NewGoalService(goalRepo, userRepo, time.Now)
	planService := service.NewPlanService(planRepo, userRepo)
	reportService := service.NewReportService(metricsService, userRepo, logRepo, fileStorage, time.Now)

	// --- Initialize Gin Engine ---
	router := gin.New()
	router.Use(api.RequestLogger(), gin.Recovery())

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		sessionService,
		logService,
		metricsService,
		goalService,
		planService,
		exerciseService,
		reportService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}
