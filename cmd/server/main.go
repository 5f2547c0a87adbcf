package main

import (
	"context"
	"log"
	"os"

	"venturepath-backend/handlers"
	"venturepath-backend/service"
	"venturepath-backend/session"
	"venturepath-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	ctx := context.Background()

	// Initialize the session slot store
	sessionStore, err := session.NewStoreFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	log.Println("Session store initialized")

	// Initialize export storage
	exportStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize export storage: %v", err)
	}
	log.Println("Export storage initialized")

	// Initialize Gemini client
	geminiClient, err := initGemini()
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}

	// Initialize services
	accountService := service.NewAccountService(
		service.WithSessionStore(sessionStore),
	)

	generationService := service.NewGenerationService(
		service.GenerationWithGeminiClient(geminiClient),
	)

	// Initialize handlers
	registry := handlers.NewRegistry()
	wizardHandler := handlers.NewWizardHandler(registry, accountService, sessionStore, generationService)
	accountHandler := handlers.NewAccountHandler(accountService)
	roadmapHandler := handlers.NewRoadmapHandler(registry, generationService, exportStorage)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Wizard endpoints
		api.POST("/wizard", wizardHandler.CreateSession)
		api.GET("/wizard/:id", wizardHandler.GetSession)
		api.PUT("/wizard/:id/profile", wizardHandler.SetField)
		api.POST("/wizard/:id/next", wizardHandler.Next)
		api.POST("/wizard/:id/back", wizardHandler.Back)
		api.POST("/wizard/:id/submit", wizardHandler.Submit)
		api.POST("/wizard/:id/regenerate", wizardHandler.Regenerate)
		api.DELETE("/wizard/:id", wizardHandler.DeleteSession)

		// Account endpoints
		api.POST("/account/login", accountHandler.Login)
		api.POST("/account/logout", accountHandler.Logout)
		api.GET("/account", accountHandler.GetAccount)
		api.POST("/account/upgrade", accountHandler.Upgrade)
		api.POST("/account/ideas", accountHandler.SaveIdea)
		api.DELETE("/account/ideas/:id", accountHandler.DeleteSavedIdea)

		// Roadmap and consultation endpoints
		api.POST("/roadmap", roadmapHandler.GenerateRoadmap)
		api.POST("/roadmap/export", roadmapHandler.ExportRoadmap)
		api.GET("/exports/*key", roadmapHandler.GetExport)
		api.POST("/consult", roadmapHandler.Consult)
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initGemini() (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}
