package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/workpulse/workpulse/internal/config"
	"github.com/workpulse/workpulse/internal/repository/mongodb"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Connecting to MongoDB at %s:%d...\n", cfg.Mongo.Host, cfg.Mongo.Port)

	db, err := mongodb.NewDB(context.Background(), cfg.Mongo)
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close(context.Background())

	fmt.Println("Creating indexes...")
	if err := db.EnsureIndexes(context.Background()); err != nil {
		panic(fmt.Sprintf("Failed to create indexes: %v", err))
	}
	fmt.Println("Indexes created")
}
