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

	"gotours/internal/config"
	"gotours/internal/handlers"
	"gotours/internal/middleware"
	"gotours/internal/repositories/mongodb"
	"gotours/internal/services"
	"gotours/pkg/cache"
	"gotours/pkg/database"
	"gotours/pkg/logger"
	"gotours/pkg/mailer"
	"gotours/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  cfg.App.LogFormat,
		Output:  "stdout",
		AppName: cfg.App.Name,
		Colors:  cfg.App.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		logg.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		logg.Fatalf("Failed to run migrations: %v", err)
	}

	// The cache is optional: without Redis the API still works, just
	// without user caching and rate limiting.
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logg.WithError(err).Warn("Redis unavailable, continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	mail := mailer.NewMailer(&mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
		TLS:       cfg.SMTP.TLS,
	})

	var repoCache mongodb.CacheService
	if redisCache != nil {
		repoCache = redisCache
	}
	userRepo := mongodb.NewUserRepository(db.Database, repoCache)
	tourRepo := mongodb.NewTourRepository(db.Database, repoCache)
	reviewRepo := mongodb.NewReviewRepository(db.Database)

	authService := services.NewAuthService(userRepo, mail, cfg, logg)
	tourService := services.NewTourService(tourRepo, logg)
	reviewService := services.NewReviewService(reviewRepo, tourRepo, logg)
	userService := services.NewUserService(userRepo, logg)

	h := &routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService, cfg, logg),
		Tour:   handlers.NewTourHandler(tourService, logg),
		User:   handlers.NewUserHandler(userService, logg),
		Review: handlers.NewReviewHandler(reviewService, logg),
	}

	var limiter middleware.RateLimitStore
	if redisCache != nil {
		limiter = redisCache
	}

	router := routes.Setup(cfg, logg, h, userRepo, limiter)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Infof("Starting %s on %s", cfg.App.Name, server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logg.Errorf("Forced shutdown: %v", err)
	}
}
