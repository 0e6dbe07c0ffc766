package config

import (
	"log"

	"peo-doctrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	if err := seedDivisions(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedDivisions(db *gorm.DB) error {
	divisions := []models.Division{
		{
			Name:     "Planning and Design",
			District: "1st",
			IsActive: true,
		},
		{
			Name:     "Construction",
			District: "1st",
			IsActive: true,
		},
		{
			Name:     "Maintenance",
			District: "2nd",
			IsActive: true,
		},
		{
			Name:     "Quality Assurance",
			District: "2nd",
			IsActive: true,
		},
		{
			Name:     "Administrative",
			District: "1st",
			IsActive: true,
		},
	}

	for _, d := range divisions {
		var existing models.Division
		if err := db.Where("name = ?", d.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&d).Error; err != nil {
					return err
				}
				log.Printf("   Created division: %s", d.Name)
			}
		}
	}
	return nil
}
