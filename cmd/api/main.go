package main

import (
	"context"
	"log"
	"os"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/server"
	"github.com/foodgram-app/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if _, statErr := os.Stat("migrations"); statErr == nil {
		err = database.RunMigrations(db, "migrations")
	} else {
		err = database.AutoMigrate(db)
	}
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Rate limiting is skipped when Redis is unreachable.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	var images service.ImageStorage
	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Printf("S3 unavailable, image uploads disabled: %v", err)
	} else {
		images = service.NewS3ImageService(s3cfg)
	}

	srv := server.NewServer(db, cfg, redisClient, images)

	log.Printf("Starting server on :%s", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
