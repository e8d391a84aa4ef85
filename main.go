package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/marwah-tailors/marwah-tailors-api/config"
	"github.com/marwah-tailors/marwah-tailors-api/controllers"
	"github.com/marwah-tailors/marwah-tailors-api/middleware"
	"github.com/marwah-tailors/marwah-tailors-api/models"
	"github.com/marwah-tailors/marwah-tailors-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Marwah Tailors API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Measurement{},
		&models.Fabric{},
		&models.Ticket{},
		&models.Lead{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize swatch storage; without a bucket the catalog still works,
	// only uploads are disabled.
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, swatch uploads disabled")
	}

	services.InitMailService(cfg)

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all middleware and routes.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://marwahtailors.com", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.EnsureValidToken(cfg)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleTailor)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/track/:orderId", controllers.TrackOrder)
		v1.GET("/fabrics", controllers.ListFabrics)
		v1.POST("/leads", controllers.CreateLead)
		v1.POST("/auth/register", controllers.Register)
		v1.POST("/auth/login", controllers.Login)

		// Authenticated routes
		auth := v1.Group("", authRequired)
		{
			auth.GET("/users/me", controllers.GetMyProfile)
			auth.PUT("/users/me", controllers.UpdateMyProfile)
			auth.GET("/measurements/me", controllers.GetMyMeasurements)
			auth.PUT("/measurements/me", controllers.UpdateMyMeasurements)

			auth.GET("/orders", controllers.ListOrders)
			auth.GET("/orders/:orderId", controllers.GetOrder)
			auth.PUT("/orders/:orderId/status", staffOnly, controllers.UpdateOrderStatus)

			auth.POST("/tickets", controllers.CreateTicket)
			auth.GET("/tickets", controllers.ListTickets)

			// Admin routes
			admin := auth.Group("", adminOnly)
			{
				admin.POST("/orders", controllers.CreateOrder)
				admin.PUT("/orders/:orderId/assign-tailor", controllers.AssignTailor)

				admin.GET("/users", controllers.ListUsers)
				admin.POST("/users", controllers.CreateStaff)
				admin.PUT("/users/:id/role", controllers.UpdateUserRole)

				admin.POST("/fabrics", controllers.CreateFabric)
				admin.PUT("/fabrics/:id", controllers.UpdateFabric)
				admin.DELETE("/fabrics/:id", controllers.DeleteFabric)
				admin.POST("/fabrics/:id/swatch", controllers.UploadSwatch)

				admin.PUT("/tickets/:id", controllers.UpdateTicket)
				admin.GET("/leads", controllers.ListLeads)
				admin.PUT("/leads/:id", controllers.UpdateLead)
			}

			// Measurements of a specific customer, for the cutting table
			auth.GET("/users/:id/measurements", staffOnly, controllers.GetUserMeasurements)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Marwah Tailors API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
