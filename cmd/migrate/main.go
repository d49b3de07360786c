package main

import (
	"log"

	"github.com/civicdesk/backend/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	database.Connect()
	database.AutoMigrate()

	log.Println("Migrations completed")
}
