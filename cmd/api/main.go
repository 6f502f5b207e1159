package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logging"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Invalid configuration", zap.Error(err))
	}
	log.Info("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	analysisRepo := repositories.NewAnalysisRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, services.RetryPolicy{
		Attempts:     cfg.Worker.RetryMaxAttempts,
		InitialDelay: cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	log.Info("✅ Gemini AI initialized successfully")

	// Rubric retrieval is optional.
	var rubricStore services.RubricStore
	if cfg.Qdrant.URL != "" {
		store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
		if err != nil {
			log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}
		if err := store.InitCollection(ctx); err != nil {
			log.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
		}
		rubricStore = store
		log.Info("✅ Qdrant initialized successfully")
	} else {
		log.Info("ℹ️ QDRANT_URL not set, analyzing without rubric context")
	}

	responseValidator, err := services.NewResponseValidator()
	if err != nil {
		log.Fatal("❌ Failed to compile response schema", zap.Error(err))
	}

	analyzerService := services.NewAnalyzerService(
		analysisRepo,
		geminiService,
		rubricStore,
		services.NewPDFParserService(),
		storageService,
		responseValidator,
		cfg.Worker.Concurrency,
		log,
	)
	log.Info("✅ Analyzer service initialized", zap.Int("concurrency", cfg.Worker.Concurrency))

	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService, storageService, cfg.Storage.MaxFileSize, log)
	resultHandler := handlers.NewResultHandler(analysisRepo, log)

	bodyLimit := int(cfg.Storage.MaxFileSize) * 20
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    bodyLimit,
		ErrorHandler: handlers.NewErrorHandler(bodyLimit),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Post("/analyze-resumes", analyzeHandler.HandleAnalyze)

	api := app.Group("/api/v1")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(models.HealthResponse{
			Status: "healthy",
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
	})
	api.Post("/analyze-resumes", analyzeHandler.HandleAnalyze)
	api.Get("/analyses/:id", resultHandler.HandleGetResult)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /analyze-resumes",
				"GET /api/v1/analyses/:id",
				"GET /api/v1/health",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
