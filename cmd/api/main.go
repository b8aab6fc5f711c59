package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"resumeworks/resume-screener/internal/config"
	"resumeworks/resume-screener/internal/handlers"
	"resumeworks/resume-screener/internal/repositories"
	"resumeworks/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	normalizer, err := services.NewTextNormalizer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize text normalizer: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	// Load trained artifacts once; they are immutable for the process
	// lifetime. Missing artifacts only disable classification mode, a
	// mismatched pair is a deployment error and refuses to start.
	model, err := services.LoadArtifacts(cfg.Model.VectorizerPath, cfg.Model.ClassifierPath)
	if err != nil {
		var artifactErr *services.ArtifactMissingError
		if errors.As(err, &artifactErr) {
			log.Printf("⚠️  %v — classification mode disabled\n", artifactErr)
			model = nil
		} else {
			log.Fatalf("❌ Failed to load trained artifacts: %v", err)
		}
	} else {
		log.Printf("✅ Screening model loaded (vocabulary fingerprint %.12s…)\n", model.Fingerprint)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize analyzer
	scorer := services.NewSimilarityScorer(geminiService)
	analyzerService := services.NewAnalyzerService(
		docRepo,
		analysisRepo,
		pdfParser,
		normalizer,
		scorer,
		geminiService,
		qdrantService,
		model,
		cfg.Model.PreviewLength,
	)
	log.Println("✅ Analyzer service initialized")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		qdrantService,
		cfg.Storage.MaxFileSize,
	)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	resultHandler := handlers.NewResultHandler(analysisRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":               "healthy",
			"classification_ready": model != nil,
			"time":                 time.Now(),
		})
	})

	// API endpoints
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Delete("/resume/:id", uploadHandler.HandleDelete)
	api.Post("/classify", analyzeHandler.HandleClassify)
	api.Post("/match", analyzeHandler.HandleMatch)
	api.Get("/similar/:id", analyzeHandler.HandleSimilar)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/report/:id", resultHandler.HandleGetReport)
	api.Get("/history/:id", resultHandler.HandleGetHistory)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/upload",
				"DELETE /api/v1/resume/:id",
				"POST /api/v1/classify",
				"POST /api/v1/match",
				"GET /api/v1/similar/:id",
				"GET /api/v1/result/:id",
				"GET /api/v1/report/:id",
				"GET /api/v1/history/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
