package main

import (
	"log"
	"os"

	"catalog-chat-be/internal/model"
	"catalog-chat-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Seeds a small demo catalog. Safe to run repeatedly; rows are matched
// on their unique name/sku columns.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	brands := []model.Brand{
		{Name: "Aurora", Description: "Mid-range audio gear"},
		{Name: "Voltix", Description: "Phones and tablets"},
		{Name: "Nimbus", Description: "Laptops and accessories"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&brands).Error; err != nil {
		log.Fatal("Error: Failed to seed brands:", err)
	}

	categories := []model.Category{
		{Name: "Headphones"},
		{Name: "Smartphones"},
		{Name: "Laptops"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		log.Fatal("Error: Failed to seed categories:", err)
	}

	tags := []model.Tag{
		{Name: "wireless"},
		{Name: "noise-cancelling"},
		{Name: "gaming"},
		{Name: "budget"},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
		log.Fatal("Error: Failed to seed tags:", err)
	}

	// Re-read to get ids regardless of conflicts above.
	var aurora model.Brand
	db.First(&aurora, "name = ?", "Aurora")
	var headphones model.Category
	db.First(&headphones, "name = ?", "Headphones")
	var wireless, anc model.Tag
	db.First(&wireless, "name = ?", "wireless")
	db.First(&anc, "name = ?", "noise-cancelling")

	variants := []model.ProductVariant{
		{
			Name:        "Aurora Pulse 300",
			Sku:         "AUR-P300",
			Description: "Over-ear wireless headphones with active noise cancelling and 40 hour battery life.",
			Price:       179.99,
			Stock:       42,
			Specs:       datatypes.JSON([]byte(`{"driver":"40mm","battery":"40h","bluetooth":"5.3"}`)),
			BrandId:     aurora.Id,
			CategoryId:  headphones.Id,
			Tags:        []model.Tag{wireless, anc},
		},
		{
			Name:        "Aurora Pulse Lite",
			Sku:         "AUR-PLITE",
			Description: "Compact on-ear wireless headphones for commuting.",
			Price:       79.99,
			Stock:       120,
			Specs:       datatypes.JSON([]byte(`{"driver":"32mm","battery":"25h","bluetooth":"5.2"}`)),
			BrandId:     aurora.Id,
			CategoryId:  headphones.Id,
			Tags:        []model.Tag{wireless},
		},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&variants).Error; err != nil {
		log.Fatal("Error: Failed to seed variants:", err)
	}

	log.Printf("Seeded %d brands, %d categories, %d tags, %d variants.", len(brands), len(categories), len(tags), len(variants))
	log.Println("Run the reindex endpoint (POST /api/catalog/v1/variants/:id/reindex) to index them.")
}
