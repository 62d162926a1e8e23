package repository

import (
	"context"
	"errors"

	domain "padel-backend/internal/domain/registration"

	"gorm.io/gorm"
)

// RegistrationRepository implements domain.RegistrationRepository using GORM
type RegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new GORM registration repository
func NewRegistrationRepository(db *gorm.DB) domain.RegistrationRepository {
	return &RegistrationRepository{
		db: db,
	}
}

func slotOrder(db *gorm.DB) *gorm.DB {
	return db.Order("day_of_week, start_time, end_time")
}

func (r *RegistrationRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("TournamentCategory").
		Preload("TournamentCategory.Tournament").
		Preload("Player").
		Preload("Partner").
		Preload("Unavailability", slotOrder)
}

// List retrieves registrations matching the filters, newest first,
// with relations and slots eager-loaded
func (r *RegistrationRepository) List(ctx context.Context, filters domain.ListFilters) ([]*domain.Registration, error) {
	query := r.withRelations(ctx)

	if filters.TournamentCategoryID != 0 {
		query = query.Where("registrations.tournament_category_id = ?", filters.TournamentCategoryID)
	}
	if filters.TournamentID != 0 {
		query = query.Joins("JOIN tournament_categories tc ON tc.id = registrations.tournament_category_id").
			Where("tc.tournament_id = ?", filters.TournamentID)
	}
	if filters.PersonID != 0 {
		query = query.Where("registrations.player_id = ? OR registrations.partner_id = ?", filters.PersonID, filters.PersonID)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("registrations.payment_status = ?", filters.PaymentStatus)
	}
	if filters.IsActive != nil {
		query = query.Where("registrations.is_active = ?", *filters.IsActive)
	}

	var registrations []*domain.Registration
	err := query.Order("registrations.created_at DESC, registrations.id DESC").Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// GetByID retrieves a registration with relations and slots, or nil if absent
func (r *RegistrationRepository) GetByID(ctx context.Context, id uint) (*domain.Registration, error) {
	var registration domain.Registration
	err := r.withRelations(ctx).First(&registration, "registrations.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

// Create inserts a new registration row
func (r *RegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	err := r.db.WithContext(ctx).Omit("TournamentCategory", "Player", "Partner", "Unavailability").
		Create(registration).Error
	return translateConflict(err)
}

// Update applies only the given column values to the registration row
func (r *RegistrationRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("id = ?", id).
		Updates(fields).Error
	return translateConflict(err)
}

// Delete removes the registration and all of its unavailability slots
func (r *RegistrationRepository) Delete(ctx context.Context, registration *domain.Registration) error {
	if err := r.db.WithContext(ctx).
		Where("registration_id = ?", registration.ID).
		Delete(&domain.UnavailabilitySlot{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(registration).Error
}

// BulkInsertSlots inserts the slot set for a freshly created registration
func (r *RegistrationRepository) BulkInsertSlots(ctx context.Context, registrationID uint, slots []domain.SlotInput) error {
	if len(slots) == 0 {
		return nil
	}
	rows := make([]domain.UnavailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, domain.UnavailabilitySlot{
			RegistrationID: registrationID,
			DayOfWeek:      slot.DayOfWeek,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
		})
	}
	return translateConflict(r.db.WithContext(ctx).Create(&rows).Error)
}

// ReplaceSlots deletes every existing slot for the registration and
// bulk-inserts the new set. Callers run this inside Transaction together
// with the surrounding field update.
func (r *RegistrationRepository) ReplaceSlots(ctx context.Context, registrationID uint, slots []domain.SlotInput) error {
	if err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Delete(&domain.UnavailabilitySlot{}).Error; err != nil {
		return err
	}
	return r.BulkInsertSlots(ctx, registrationID, slots)
}

// ExistsPairInCategory reports whether the unordered pair is already
// registered in the category, checking both orderings
func (r *RegistrationRepository) ExistsPairInCategory(ctx context.Context, categoryID, playerID, partnerID, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("tournament_category_id = ?", categoryID).
		Where("(player_id = ? AND partner_id = ?) OR (player_id = ? AND partner_id = ?)",
			playerID, partnerID, partnerID, playerID)
	return r.exists(query, excludeID)
}

// ExistsPlayerInCategory reports whether the player already holds the
// player role in a registration of the category
func (r *RegistrationRepository) ExistsPlayerInCategory(ctx context.Context, categoryID, playerID, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("tournament_category_id = ? AND player_id = ?", categoryID, playerID)
	return r.exists(query, excludeID)
}

// ExistsPartnerInCategory reports whether the player already holds the
// partner role in a registration of the category
func (r *RegistrationRepository) ExistsPartnerInCategory(ctx context.Context, categoryID, partnerID, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Where("tournament_category_id = ? AND partner_id = ?", categoryID, partnerID)
	return r.exists(query, excludeID)
}

// ExistsPersonInTournament reports whether the person appears in either
// role in any registration under any category of the tournament
func (r *RegistrationRepository) ExistsPersonInTournament(ctx context.Context, tournamentID, personID, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Registration{}).
		Joins("JOIN tournament_categories tc ON tc.id = registrations.tournament_category_id").
		Where("tc.tournament_id = ?", tournamentID).
		Where("registrations.player_id = ? OR registrations.partner_id = ?", personID, personID)
	return r.exists(query, excludeID)
}

func (r *RegistrationRepository) exists(query *gorm.DB, excludeID uint) (bool, error) {
	if excludeID != 0 {
		query = query.Where("registrations.id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Transaction runs fn against a repository bound to one database transaction
func (r *RegistrationRepository) Transaction(ctx context.Context, fn func(domain.RegistrationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RegistrationRepository{db: tx})
	})
}

// translateConflict maps unique-constraint violations that slipped past the
// application-level checks (a concurrent create racing the existence
// queries) to the domain storage-conflict error.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrStorageConflict()
	}
	return err
}
