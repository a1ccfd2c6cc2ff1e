package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachreports/internal/cache"
	"coachreports/internal/config"
	"coachreports/internal/database"
	"coachreports/internal/handlers"
	"coachreports/internal/repository"
	"coachreports/internal/security"
	"coachreports/internal/service"
	"coachreports/internal/store"
)

const (
	loginAttemptsPerMinute = 10
	uiStateIdleTTL         = 12 * time.Hour
	sweepInterval          = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	checks := map[string]handlers.Pinger{"database": db}

	// Report cache is optional
	var reportCache cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.New(ctx, cfg.RedisURL, cfg.ReportCacheTTL)
		if err != nil {
			log.Printf("Warning: report cache disabled: %v", err)
		} else {
			defer redisCache.Close()
			reportCache = redisCache
			checks["cache"] = handlers.PingFunc(redisCache.HealthCheck)
			log.Printf("Report cache enabled (ttl: %s)", cfg.ReportCacheTTL)
		}
	}

	// Load templates
	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	learnerRepo := repository.NewLearnerRepository(db)
	contentRepo := repository.NewContentRepository(db)
	logRepo := repository.NewSummaryLogRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(userRepo, tokens)
	classroomService := service.NewClassroomService(classroomRepo, learnerRepo)
	reportService := service.NewReportService(classroomRepo, contentRepo, logRepo, reportCache)
	go authService.SweepSessions(ctx, sweepInterval)

	// UI state shared by the page components
	ui := store.New(reportService, classroomService, uiStateIdleTTL)
	go ui.Sweep(ctx, sweepInterval)

	limiter := security.NewRateLimiter(loginAttemptsPerMinute, time.Minute).TrustProxyHeaders(cfg.TrustProxy)
	go limiter.Sweep(ctx, sweepInterval)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, security.NewCSRFGenerator(cfg.CSRFSecret), limiter)
	render := handlers.NewRenderer(templates, middleware, cfg.DefaultLocale)

	mux := http.NewServeMux()

	// Static files
	fs := http.FileServer(http.Dir(cfg.StaticFilesPath))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	handlers.RegisterRoutes(mux, handlers.Handlers{
		Middleware: middleware,
		Auth:       handlers.NewAuthHandler(authService, ui, render),
		Classes:    handlers.NewClassHandler(ui, ui, render),
		Reports:    handlers.NewReportHandler(ui, render),
		Health:     handlers.NewHealthHandler(checks),
	})

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
