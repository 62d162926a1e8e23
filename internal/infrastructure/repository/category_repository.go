package repository

import (
	"context"
	"errors"

	domain "padel-backend/internal/domain/registration"

	"gorm.io/gorm"
)

// CategoryRepository implements domain.CategoryRepository using GORM
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new GORM tournament category repository
func NewCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

// GetByID retrieves a tournament category with its tournament, or nil if absent
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*domain.TournamentCategory, error) {
	var category domain.TournamentCategory
	err := r.db.WithContext(ctx).Preload("Tournament").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}
