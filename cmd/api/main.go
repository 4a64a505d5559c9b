package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/database"
	"github.com/mealbook/backend/internal/middleware"
	"github.com/mealbook/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var limiter middleware.Limiter
	if cfg.RateLimit > 0 {
		var redisClient *redis.Client
		if cfg.RedisURL != "" {
			redisClient, err = database.NewRedisClient(cfg)
			if err != nil {
				// Continue with the in-process limiter if Redis is not available
				log.Printf("Warning: Redis rate limiting unavailable: %v", err)
				redisClient = nil
			} else {
				defer redisClient.Close()
			}
		}
		limiter = middleware.NewMealCreationLimiter(redisClient, cfg.RateLimit, cfg.RateLimitBurst)
	}

	// Create and start server
	srv := server.New(cfg, db, limiter)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
