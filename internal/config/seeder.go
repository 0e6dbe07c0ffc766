package config

import (
	"log"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ Super admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the single super-administrator account.
// At most one SUPER_ADMIN exists; the seeder is a no-op when one does.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleSuperAdmin)).Count(&count)
	if count > 0 {
		return nil
	}

	plain := getEnv("SUPER_ADMIN_PASSWORD", "changeme-now")
	hashedPassword, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: getEnv("SUPER_ADMIN_USERNAME", "superadmin"),
		Email:    getEnv("SUPER_ADMIN_EMAIL", "superadmin@peo.gov.ph"),
		Password: hashedPassword,
		Role:     string(domain.RoleSuperAdmin),
		Status:   models.UserStatusActive,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", admin.Username)
	return nil
}
