package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/routes"
	"journal-management-api/services"

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

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Create upload directory if not exists
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create upload directory: %v", err)
	}

	// Optional in-process overdue sweep. The sweep is normally driven from
	// cron via cmd/review-sweep; setting REVIEW_SWEEP_INTERVAL_HOURS runs it
	// inside the API server instead.
	if hours, err := strconv.Atoi(os.Getenv("REVIEW_SWEEP_INTERVAL_HOURS")); err == nil && hours > 0 {
		go runOverdueSweep(time.Duration(hours) * time.Hour)
	}

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func runOverdueSweep(interval time.Duration) {
	svc := services.NewReviewWorkflowService(config.DB, services.NewNotificationService(config.DB))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for now := range ticker.C {
		n, err := svc.MarkOverdueReviews(now)
		if err != nil {
			log.Printf("overdue sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("overdue sweep: marked %d reviews overdue", n)
		}
	}
}
