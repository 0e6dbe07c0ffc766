package repositories

import (
	"context"

	"peo-doctrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// divisionRepository implements DivisionRepository interface
type divisionRepository struct {
	db *gorm.DB
}

// NewDivisionRepository creates a new division repository
func NewDivisionRepository(db *gorm.DB) DivisionRepository {
	return &divisionRepository{db: db}
}

// Create creates a new division
func (r *divisionRepository) Create(ctx context.Context, division *models.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

// GetByID gets a division by ID
func (r *divisionRepository) GetByID(ctx context.Context, id uint) (*models.Division, error) {
	var division models.Division
	err := r.db.WithContext(ctx).First(&division, id).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

// List lists all active divisions
func (r *divisionRepository) List(ctx context.Context) ([]*models.Division, error) {
	var divisions []*models.Division
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&divisions).Error
	return divisions, err
}

// Update updates a division
func (r *divisionRepository) Update(ctx context.Context, division *models.Division) error {
	return r.db.WithContext(ctx).Save(division).Error
}

// Delete soft deletes a division
func (r *divisionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Division{}, id).Error
}
