package repository

import (
	"context"
	"errors"

	domain "padel-backend/internal/domain/registration"

	"gorm.io/gorm"
)

// PlayerRepository implements domain.PlayerRepository using GORM
type PlayerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new GORM player repository
func NewPlayerRepository(db *gorm.DB) domain.PlayerRepository {
	return &PlayerRepository{
		db: db,
	}
}

// GetByID retrieves a player by ID, or nil if absent
func (r *PlayerRepository) GetByID(ctx context.Context, id uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}
