package domain

import "context"

// RegistrationRepository defines the persistence boundary for registrations
// and their unavailability slots. Existence checks take an excludeID so
// update flows can skip the registration being modified; pass 0 on create.
type RegistrationRepository interface {
	List(ctx context.Context, filters ListFilters) ([]*Registration, error)
	GetByID(ctx context.Context, id uint) (*Registration, error)
	Create(ctx context.Context, registration *Registration) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, registration *Registration) error

	BulkInsertSlots(ctx context.Context, registrationID uint, slots []SlotInput) error
	ReplaceSlots(ctx context.Context, registrationID uint, slots []SlotInput) error

	ExistsPairInCategory(ctx context.Context, categoryID, playerID, partnerID, excludeID uint) (bool, error)
	ExistsPlayerInCategory(ctx context.Context, categoryID, playerID, excludeID uint) (bool, error)
	ExistsPartnerInCategory(ctx context.Context, categoryID, partnerID, excludeID uint) (bool, error)
	ExistsPersonInTournament(ctx context.Context, tournamentID, personID, excludeID uint) (bool, error)

	// Transaction runs fn against a repository bound to a single database
	// transaction; fn returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(RegistrationRepository) error) error
}

// CategoryRepository is the read-only collaborator lookup for tournament categories
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*TournamentCategory, error)
}

// PlayerRepository is the read-only collaborator lookup for players
type PlayerRepository interface {
	GetByID(ctx context.Context, id uint) (*Player, error)
}
