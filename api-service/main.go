package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketplace-backend/api-service/handlers"
	"marketplace-backend/api-service/middleware"
	"marketplace-backend/api-service/services"
	"marketplace-backend/shared/config"
	"marketplace-backend/shared/database"
	"marketplace-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Initialize session cache (non-fatal, requests fall back to the database)
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("⚠️ Redis unavailable, session caching disabled: %v", err)
	}

	// Initialize blob storage
	blobService, err := services.NewBlobService()
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}
	handlers.InitFileHandler(blobService)

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.ResolveSession())

	// Organization endpoints
	router.GET("/api/organizations", handlers.GetOrganizations)
	router.GET("/api/organizations/:id", handlers.GetOrganization)
	router.POST("/api/organizations", middleware.RequireSession(), handlers.CreateOrganization())
	router.PUT("/api/organizations/:id", middleware.RequireSession(), handlers.UpdateOrganization())
	router.DELETE("/api/organizations/:id", middleware.RequireSession(), handlers.DeleteOrganization())

	// User endpoints
	router.GET("/api/users", middleware.RequireSession(), handlers.GetUsers)
	router.GET("/api/users/:id", middleware.RequireSession(), handlers.GetUser)
	router.PUT("/api/users/:id", middleware.RequireSession(), handlers.UpdateUser())
	router.DELETE("/api/users/:id", middleware.RequireSession(), handlers.DeleteUser())

	// File endpoints
	router.GET("/api/files/:id", handlers.GetFile)
	router.POST("/api/files", middleware.RequireSession(), handlers.CreateFile())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api",
		})
	})

	port := strings.Split(config.GetConfig().APIServiceURL, ":")[2]
	log.Printf("API Service starting on port %s...", port)
	router.Run(":" + port)
}
