package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/civicdesk/backend/internal/database"
	"github.com/civicdesk/backend/internal/models"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// UserData represents the structure of users in the JSON file
type UserData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// JSONData represents the structure of the seed file
type JSONData struct {
	Users []UserData `json:"users"`
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	database.Connect()

	log.Println("Running database migrations...")
	database.AutoMigrate()

	log.Println("Seeding database with sample data...")
	if err := seedUsers(); err != nil {
		log.Printf("Error seeding users: %v", err)
		os.Exit(1)
	}

	log.Println("Database seeding completed successfully")
}

func seedUsers() error {
	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = "cmd/seed/users.json"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var data JSONData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}

	for _, u := range data.Users {
		var existing models.User
		if err := database.DB.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping", u.Username)
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := models.User{
			Username: u.Username,
			Email:    u.Email,
			Password: string(hashed),
			Role:     models.UserRole(u.Role),
		}
		if user.Role == "" {
			user.Role = models.RoleCitizen
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("Created user %s (%s)", user.Username, user.Role)
	}

	return nil
}
