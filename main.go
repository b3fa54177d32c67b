package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sawaal/config"
	"sawaal/handlers"
	"sawaal/logger"
	"sawaal/middleware"
	"sawaal/models"
	"sawaal/routes"
	"sawaal/services"
	"sawaal/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("failed to get database handle", zap.Error(err))
	}
	defer sqlDB.Close()

	// Auto-migrate database models
	if err := db.AutoMigrate(models.All()...); err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize services
	categoryService := services.NewCategoryService(db)
	if err := categoryService.Seed(ctx); err != nil {
		zlog.Fatal("failed to seed categories", zap.Error(err))
	}

	var locker services.Locker = services.NewLocalLocker()
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		locker = services.NewRedisLocker(redisClient, cfg.Redis.LockTTL, zlog.Named("locker"))
		zlog.Info("using redis category locker", zap.String("addr", cfg.Redis.Addr()))
	}

	provider := services.NewTriviaProvider(
		cfg.Provider.BaseURL,
		cfg.Provider.Amount,
		cfg.Provider.Timeout,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		zlog.Named("provider"),
	)

	hub := services.NewHub(zlog.Named("hub"))
	go hub.Run(ctx)

	quizService := services.NewQuizService(db, categoryService, provider, locker, zlog.Named("quiz"))
	resultService := services.NewResultService(db, hub, zlog.Named("grader"))
	adminHash, err := cfg.AdminPasswordHash()
	if err != nil {
		zlog.Warn("admin API disabled", zap.Error(err))
	}
	authService := services.NewAuthService(adminHash, cfg.JWTSecret, cfg.Admin.TokenTTL)

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(categoryService, quizService, resultService)
	pageHandler := handlers.NewPageHandler()
	adminHandler := handlers.NewAdminHandler(authService, quizService, resultService)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zlog.Named("http")), middleware.CORS())

	tmpl, err := templates.Load()
	if err != nil {
		zlog.Fatal("failed to parse templates", zap.Error(err))
	}
	router.SetHTMLTemplate(tmpl)

	routes.SetupRoutes(router, quizHandler, pageHandler, adminHandler, authService, hub, zlog.Named("ws"))

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.BindAddress, cfg.Port),
		Handler: router,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
