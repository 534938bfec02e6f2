package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tablemaker/internal/auth"
	"github.com/tablemaker/internal/config"
	"github.com/tablemaker/internal/handler"
	"github.com/tablemaker/internal/mail"
	"github.com/tablemaker/internal/middleware"
	"github.com/tablemaker/internal/models"
	"github.com/tablemaker/internal/repository"
	"github.com/tablemaker/internal/service"
	"github.com/tablemaker/internal/worker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Initialize logging
	if err := middleware.InitLogger("logs"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis
	rdb := initRedis(cfg)

	// Auto migrate database
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize mailer
	mailer, err := mail.NewClient(
		cfg.Mail.Host,
		cfg.Mail.User,
		cfg.Mail.Password,
		cfg.Mail.FromAddress,
		cfg.Mail.FromName,
		cfg.Mail.SkipVerify,
	)
	if err != nil {
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	if !mailer.IsEnabled() {
		log.Println("Mail: DISABLED (missing smtp credentials)")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	requestRepo := repository.NewGroupRequestRepository(db)
	tokenRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize services
	denylist := auth.NewRedisDenylist(rdb)
	mailLimiter := mail.NewRedisLimiter(rdb, cfg.PasswordReset.MaxEmailsPerDay)
	tokenTTL := time.Duration(cfg.PasswordReset.TokenTTLHours) * time.Hour

	authService := service.NewAuthService(userRepo, denylist, cfg.JWT)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo)
	requestService := service.NewRequestService(requestRepo, groupRepo)
	passwordService := service.NewPasswordService(userRepo, tokenRepo, mailer, mailLimiter, tokenTTL)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, userService)
	groupHandler := handler.NewGroupHandler(groupService)
	requestHandler := handler.NewRequestHandler(requestService)
	passwordHandler := handler.NewPasswordHandler(passwordService)

	// Create Gin router
	router := gin.Default()

	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(corsMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    Version,
			"commit":     Commit,
			"build_time": BuildTime,
			"time":       time.Now().Unix(),
		})
	})

	// API v1 routes
	authMiddleware := middleware.AuthMiddleware(authService)
	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1, authMiddleware)
		authHandler.RegisterRoutes(v1, authMiddleware)
		groupHandler.RegisterRoutes(v1, authMiddleware)
		requestHandler.RegisterRoutes(v1, authMiddleware)
		passwordHandler.RegisterRoutes(v1)
	}

	// Start the expired-token sweeper
	sweeper := worker.NewTokenSweeper(
		tokenRepo,
		tokenTTL,
		time.Duration(cfg.PasswordReset.SweepIntervalMinutes)*time.Minute,
	)
	go sweeper.Start()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sweeper.Stop()

	// Graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Printf("Error closing Redis connection: %v", err)
	}

	log.Println("Server exited properly")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormLogger,
		// Map driver duplicate-key violations onto gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupRequest{},
		&models.PasswordResetToken{},
	)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
