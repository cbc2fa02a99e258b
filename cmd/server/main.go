package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hotelelegance/hotel-ops-backend/internal/cache"
	"github.com/hotelelegance/hotel-ops-backend/internal/config"
	"github.com/hotelelegance/hotel-ops-backend/internal/database"
	"github.com/hotelelegance/hotel-ops-backend/internal/events"
	"github.com/hotelelegance/hotel-ops-backend/internal/handlers"
	"github.com/hotelelegance/hotel-ops-backend/internal/middleware"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/hotelelegance/hotel-ops-backend/internal/services"
	"github.com/hotelelegance/hotel-ops-backend/pkg/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Hotel Elegance Operations Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Optional catalog cache
	var catalogCache *cache.CatalogCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		catalogCache = cache.New(redisClient, cfg.Redis.CatalogTTL)
		logger.Infof("Catalog cache enabled via %s", cfg.Redis.Addr)
	} else {
		logger.Info("Catalog cache disabled")
	}

	// Optional reservation event stream
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Infof("Reservation events publishing to %s", cfg.Kafka.Topic)
	} else {
		logger.Info("Reservation event publishing disabled")
	}

	// Initialize repositories
	reservationRepo := database.NewReservationRepository(db)
	roomRepo := database.NewRoomRepository(db)
	stayRepo := database.NewStayRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	serviceRepo := database.NewServiceRepository(db)
	consumptionRepo := database.NewConsumptionRepository(db)
	userRepo := database.NewUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	reservationService := services.NewReservationService(reservationRepo, roomRepo, userRepo, publisher, logger)
	stayService := services.NewStayService(stayRepo, roomRepo, publisher, logger)
	paymentService := services.NewPaymentService(paymentRepo, reservationRepo, logger)
	consumptionService := services.NewConsumptionService(consumptionRepo, serviceRepo, catalogCache, logger)
	authService := services.NewAuthService(userRepo, jwtService, int64(cfg.JWT.AccessTokenExpiry.Seconds()), logger)

	// Initialize handlers
	reservationHandler := handlers.NewReservationHandler(reservationService, paymentService)
	roomHandler := handlers.NewRoomHandler(roomRepo, catalogCache)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	serviceHandler := handlers.NewServiceHandler(consumptionService)
	operationsHandler := handlers.NewOperationsHandler(stayService)
	authHandler := handlers.NewAuthHandler(authService)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db.Ping))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/profile", authHandler.Profile)
			}
		}

		// Room routes
		rooms := v1.Group("/rooms")
		rooms.Use(middleware.AuthMiddleware(jwtService))
		{
			rooms.GET("", roomHandler.List)
			rooms.GET("/:id", roomHandler.Get)
			rooms.GET("/:id/occupancy", roomHandler.Occupancy)
			rooms.POST("/:id/maintenance",
				middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
				roomHandler.SetMaintenance)
		}
		v1.GET("/room-types", roomHandler.ListRoomTypes)
		v1.GET("/room-types/:id", roomHandler.GetRoomType)

		// Reservation routes
		reservations := v1.Group("/reservations")
		reservations.Use(middleware.AuthMiddleware(jwtService))
		{
			reservations.POST("", reservationHandler.Create)
			reservations.GET("", reservationHandler.List)
			reservations.GET("/:id", reservationHandler.Get)
			reservations.PUT("/:id", reservationHandler.Update)
			reservations.POST("/:id/transition",
				middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
				reservationHandler.Transition)
			reservations.POST("/:id/sync-room",
				middleware.RequireRole(models.RoleAdmin, models.RoleStaff),
				reservationHandler.SyncRoomStatus)
			reservations.GET("/:id/summary", reservationHandler.Summary)
			reservations.GET("/:id/stay", operationsHandler.Stay)

			// Front-desk operations (staff only)
			staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)
			reservations.POST("/:id/check-in", staffOnly, operationsHandler.CheckIn)
			reservations.POST("/:id/check-out", staffOnly, operationsHandler.CheckOut)

			// Payment ledger
			reservations.POST("/:id/payments", staffOnly, paymentHandler.Record)
			reservations.GET("/:id/payments", paymentHandler.List)

			// Service consumptions
			reservations.POST("/:id/consumptions", serviceHandler.Order)
			reservations.GET("/:id/consumptions", serviceHandler.ListByReservation)
		}

		// Service catalog and consumptions
		v1.GET("/services", serviceHandler.Catalog)
		consumptions := v1.Group("/consumptions")
		consumptions.Use(middleware.AuthMiddleware(jwtService))
		{
			staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)
			consumptions.PUT("/:id/quantity", serviceHandler.UpdateQuantity)
			consumptions.POST("/:id/approve", staffOnly, serviceHandler.Approve)
			consumptions.POST("/:id/cancel", serviceHandler.Cancel)
			consumptions.POST("/:id/payments", staffOnly, serviceHandler.Pay)
			consumptions.GET("/:id/payments", serviceHandler.ListPayments)
		}

		// Operations panel (staff only)
		operations := v1.Group("/operations")
		operations.Use(middleware.AuthMiddleware(jwtService))
		operations.Use(middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
		{
			operations.GET("/panel", operationsHandler.Panel)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"path":    path,
			"ip":      c.ClientIP(),
			"latency": latency.String(),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.WithFields(fields).Error("Request failed")
		} else {
			logger.WithFields(fields).Info("Request completed")
		}
	}
}

// healthCheckHandler reports process and database health
func healthCheckHandler(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
