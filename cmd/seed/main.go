package main

import (
	"log"

	"b2bak-backend/shared/config"
	"b2bak-backend/shared/database"
)

func main() {
	log.Println("🌱 Starting database seeding...")

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if err := database.SeedDatabase(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("✅ Database seeding completed successfully!")
}
