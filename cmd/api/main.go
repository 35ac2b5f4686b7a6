package main

import (
	"log"
	"os"

	"research-metrics-api/config"
	"research-metrics-api/controllers"
	"research-metrics-api/middleware"
	"research-metrics-api/routes"
	"research-metrics-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	settings := config.LoadSettings()

	colleges, err := config.LoadCollegeMapping(settings.CollegeMappingFile)
	if err != nil {
		log.Printf("Warning: Failed to load college mapping, using defaults: %v", err)
		colleges = config.DefaultCollegeMapping()
	}

	scopusSvc := services.NewScopusService(config.DB, nil, settings.ScopusAPIKey)
	openAlexSvc := services.NewOpenAlexService(config.DB, nil, settings.OpenAlexMailto)
	facultySvc := services.NewFacultyService(config.DB)

	controllers.Init(scopusSvc, openAlexSvc, facultySvc, facultySvc, settings, colleges)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.LoggerWithWriter(config.LogWriter))

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	log.Printf("Server starting on port %s", settings.ServerPort)
	if settings.ScopusAPIKey == "" {
		log.Printf("Warning: SCOPUS_API_KEY not set, Scopus fetches will fail")
	}

	if err := router.Run(":" + settings.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
