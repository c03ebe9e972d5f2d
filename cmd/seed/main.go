package main

import (
	"log"

	"gorm.io/gorm"

	"marketplace-backend/shared/config"
	"marketplace-backend/shared/database"
	"marketplace-backend/shared/database/models"
)

func seedUser(db *gorm.DB, user models.User) error {
	return db.Where("idp_username = ?", user.IdpUsername).
		FirstOrCreate(&user).Error
}

func main() {
	log.Println("🌱 Starting database seeding...")

	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	users := []models.User{
		{
			Type:            models.UserTypeAdmin,
			Status:          models.UserStatusActive,
			Name:            "Marketplace Admin",
			Email:           "admin@marketplace.local",
			JobTitle:        "Administrator",
			IdpUsername:     "marketplace-admin",
			NotificationsOn: true,
			AcceptedTerms:   true,
		},
		{
			Type:            models.UserTypeVendor,
			Status:          models.UserStatusActive,
			Name:            "Demo Vendor One",
			Email:           "vendor1@marketplace.local",
			IdpUsername:     "demo-vendor-1",
			NotificationsOn: true,
			AcceptedTerms:   true,
			Capabilities:    models.StringList{"Frontend Development", "User Experience Design"},
		},
		{
			Type:            models.UserTypeVendor,
			Status:          models.UserStatusActive,
			Name:            "Demo Vendor Two",
			Email:           "vendor2@marketplace.local",
			IdpUsername:     "demo-vendor-2",
			NotificationsOn: true,
			AcceptedTerms:   true,
			Capabilities:    models.StringList{"Backend Development", "DevOps Engineering"},
		},
	}

	for _, user := range users {
		if err := seedUser(db, user); err != nil {
			log.Fatalf("Failed to seed user %s: %v", user.Email, err)
		}
	}

	log.Println("✅ Database seeding completed successfully!")
}
