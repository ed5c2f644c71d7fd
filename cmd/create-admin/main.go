// Command-line tool that provisions an extra admin account with random credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"genai-hiring-backend/internal/database"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"

	"gorm.io/gorm"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused admin email is found
func generateUniqueEmail(db *gorm.DB) string {
	for {
		email := fmt.Sprintf("admin_%s@hiring.local", generateRandomString(4))
		var count int64
		db.Model(&model.User{}).Where("email = ?", email).Count(&count)
		if count == 0 {
			return email
		}
	}
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	email := generateUniqueEmail(db.DB)
	password := generateRandomString(8)

	hashedPassword, err := utilities.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %s", err)
	}

	admin := model.User{
		Email:    email,
		FullName: "Platform Admin",
		Password: hashedPassword,
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %s", err)
	}

	fmt.Println("Admin account created")
	fmt.Printf("  email:    %s\n", email)
	fmt.Printf("  password: %s\n", password)
}
