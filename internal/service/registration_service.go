package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"padel-backend/internal/config"
	domain "padel-backend/internal/domain/registration"
	"padel-backend/pkg/logger"

	"github.com/shopspring/decimal"
)

const (
	CategoryDetailsTTL = 8 * time.Hour
	PlayerDetailsTTL   = 8 * time.Hour
)

// CollaboratorCache caches the read-only collaborator lookups performed on
// every registration write. Registration rows are never cached; all
// registration reads and writes go straight to the database.
type CollaboratorCache interface {
	GetCategory(ctx context.Context, id uint) (*domain.TournamentCategory, error)
	SetCategory(ctx context.Context, category *domain.TournamentCategory, ttl time.Duration) error
	GetPlayer(ctx context.Context, id uint) (*domain.Player, error)
	SetPlayer(ctx context.Context, player *domain.Player, ttl time.Duration) error
}

// RegistrationService orchestrates registration writes: pair rules,
// uniqueness checks, price reconciliation and slot validation all run here,
// and each write happens inside a single repository transaction.
type RegistrationService struct {
	registrationRepo  domain.RegistrationRepository
	categoryRepo      domain.CategoryRepository
	playerRepo        domain.PlayerRepository
	cache             CollaboratorCache
	uniquenessScope   string
	enforceExactPrice bool
}

// NewRegistrationService creates a registration service. cache may be nil,
// in which case collaborator lookups always hit the database.
func NewRegistrationService(
	registrationRepo domain.RegistrationRepository,
	categoryRepo domain.CategoryRepository,
	playerRepo domain.PlayerRepository,
	cache CollaboratorCache,
	cfg config.RegistrationConfig,
) *RegistrationService {
	scope := cfg.UniquenessScope
	if scope != config.ScopeCategory {
		scope = config.ScopeTournament
	}
	return &RegistrationService{
		registrationRepo:  registrationRepo,
		categoryRepo:      categoryRepo,
		playerRepo:        playerRepo,
		cache:             cache,
		uniquenessScope:   scope,
		enforceExactPrice: cfg.EnforceExactPrice,
	}
}

// List returns registrations matching the filters, relations eager-loaded
func (s *RegistrationService) List(ctx context.Context, filters domain.ListFilters) ([]*domain.Registration, error) {
	return s.registrationRepo.List(ctx, filters)
}

// Get returns one registration or a not-found domain error
func (s *RegistrationService) Get(ctx context.Context, id uint) (*domain.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound("registration")
	}
	return reg, nil
}

// Create validates and persists a new registration with its unavailability
// slots. Uniqueness re-validation, the row insert and the slot bulk insert
// run inside one transaction: either everything becomes visible or nothing.
func (s *RegistrationService) Create(ctx context.Context, req *domain.CreateRegistrationRequest) (*domain.Registration, error) {
	logger.Info("Creating registration for category %d, pair (%d, %d)", req.TournamentCategoryID, req.PlayerID, req.PartnerID)

	if req.PlayerID == req.PartnerID {
		return nil, &domain.Error{
			Code:    domain.CodeInvalidPair,
			Field:   "partner_id",
			Message: "player and partner must be different people",
		}
	}

	category, err := s.getCategory(ctx, req.TournamentCategoryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getPlayer(ctx, req.PlayerID, "player"); err != nil {
		return nil, err
	}
	if _, err := s.getPlayer(ctx, req.PartnerID, "partner"); err != nil {
		return nil, err
	}

	if err := s.reconcilePrice(req.PaidAmount, category); err != nil {
		return nil, err
	}

	slots, err := domain.ValidateSlots(req.Unavailability)
	if err != nil {
		return nil, err
	}

	registration := &domain.Registration{
		TournamentCategoryID: req.TournamentCategoryID,
		PlayerID:             req.PlayerID,
		PartnerID:            req.PartnerID,
		PaidAmount:           req.PaidAmount,
		PaymentReference:     strings.TrimSpace(req.PaymentReference),
		Comment:              strings.TrimSpace(req.Comment),
		IsActive:             req.IsActive == nil || *req.IsActive,
		PaymentStatus:        req.PaymentStatus,
	}

	err = s.registrationRepo.Transaction(ctx, func(tx domain.RegistrationRepository) error {
		if err := s.checkUniqueness(ctx, tx, category, req.PlayerID, req.PartnerID, 0); err != nil {
			return err
		}
		if err := tx.Create(ctx, registration); err != nil {
			return err
		}
		return tx.BulkInsertSlots(ctx, registration.ID, slots)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Registration %d created for category %d", registration.ID, registration.TournamentCategoryID)
	return s.Get(ctx, registration.ID)
}

// Update applies the fields present in the partial payload. When the
// unavailability key is present the whole slot set is replaced (an empty
// list clears it); when absent the stored slots stay untouched.
func (s *RegistrationService) Update(ctx context.Context, id uint, req *domain.UpdateRegistrationRequest) (*domain.Registration, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	newPlayerID := existing.PlayerID
	if req.PlayerID != nil {
		newPlayerID = *req.PlayerID
	}
	newPartnerID := existing.PartnerID
	if req.PartnerID != nil {
		newPartnerID = *req.PartnerID
	}
	pairChanged := newPlayerID != existing.PlayerID || newPartnerID != existing.PartnerID

	if pairChanged {
		if newPlayerID == newPartnerID {
			return nil, &domain.Error{
				Code:    domain.CodeInvalidPair,
				Field:   "partner_id",
				Message: "player and partner must be different people",
			}
		}
		if newPlayerID != existing.PlayerID {
			if _, err := s.getPlayer(ctx, newPlayerID, "player"); err != nil {
				return nil, err
			}
		}
		if newPartnerID != existing.PartnerID {
			if _, err := s.getPlayer(ctx, newPartnerID, "partner"); err != nil {
				return nil, err
			}
		}
	}

	category, err := s.getCategory(ctx, existing.TournamentCategoryID)
	if err != nil {
		return nil, err
	}

	if req.PaidAmount != nil {
		if err := s.reconcilePrice(*req.PaidAmount, category); err != nil {
			return nil, err
		}
	}

	var slots []domain.SlotInput
	replaceSlots := req.Unavailability != nil
	if replaceSlots {
		slots, err = domain.ValidateSlots(*req.Unavailability)
		if err != nil {
			return nil, err
		}
	}

	fields := make(map[string]interface{})
	if req.PlayerID != nil {
		fields["player_id"] = *req.PlayerID
	}
	if req.PartnerID != nil {
		fields["partner_id"] = *req.PartnerID
	}
	if req.PaidAmount != nil {
		fields["paid_amount"] = *req.PaidAmount
	}
	if req.PaymentReference != nil {
		fields["payment_reference"] = strings.TrimSpace(*req.PaymentReference)
	}
	if req.Comment != nil {
		fields["comment"] = strings.TrimSpace(*req.Comment)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.PaymentStatus != nil {
		fields["payment_status"] = *req.PaymentStatus
	}

	err = s.registrationRepo.Transaction(ctx, func(tx domain.RegistrationRepository) error {
		if pairChanged {
			if err := s.checkUniqueness(ctx, tx, category, newPlayerID, newPartnerID, id); err != nil {
				return err
			}
		}
		if err := tx.Update(ctx, id, fields); err != nil {
			return err
		}
		if replaceSlots {
			return tx.ReplaceSlots(ctx, id, slots)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Registration %d updated (%d fields, slots replaced: %v)", id, len(fields), replaceSlots)
	return s.Get(ctx, id)
}

// Delete removes a registration and its slots
func (s *RegistrationService) Delete(ctx context.Context, id uint) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.registrationRepo.Transaction(ctx, func(tx domain.RegistrationRepository) error {
		return tx.Delete(ctx, existing)
	})
	if err != nil {
		return err
	}

	logger.Info("Registration %d deleted", id)
	return nil
}

// checkUniqueness enforces the pairing rules against existing registrations.
// The either-order pair check always runs first so re-submitting the same
// pair inverted reports a duplicate pair, not a duplicate participant.
func (s *RegistrationService) checkUniqueness(ctx context.Context, repo domain.RegistrationRepository, category *domain.TournamentCategory, playerID, partnerID, excludeID uint) error {
	exists, err := repo.ExistsPairInCategory(ctx, category.ID, playerID, partnerID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &domain.Error{
			Code:    domain.CodeDuplicatePair,
			Message: "this pair is already registered in the category",
		}
	}

	if s.uniquenessScope == config.ScopeTournament {
		for _, check := range []struct {
			id    uint
			field string
		}{
			{playerID, "player_id"},
			{partnerID, "partner_id"},
		} {
			exists, err := repo.ExistsPersonInTournament(ctx, category.TournamentID, check.id, excludeID)
			if err != nil {
				return err
			}
			if exists {
				return &domain.Error{
					Code:    domain.CodeDuplicateParticipant,
					Field:   check.field,
					Message: "this player is already registered in the tournament",
				}
			}
		}
		return nil
	}

	exists, err = repo.ExistsPlayerInCategory(ctx, category.ID, playerID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &domain.Error{
			Code:    domain.CodeDuplicateParticipant,
			Field:   "player_id",
			Message: "this player is already registered in the category",
		}
	}

	exists, err = repo.ExistsPartnerInCategory(ctx, category.ID, partnerID, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return &domain.Error{
			Code:    domain.CodeDuplicateParticipant,
			Field:   "partner_id",
			Message: "this partner is already registered in the category",
		}
	}
	return nil
}

// reconcilePrice enforces the exact-price business rule when enabled.
// paid_amount must then match the category price to the cent.
func (s *RegistrationService) reconcilePrice(paidAmount decimal.Decimal, category *domain.TournamentCategory) error {
	if !s.enforceExactPrice {
		return nil
	}
	if !paidAmount.Equal(category.Price) {
		return &domain.Error{
			Code:    domain.CodePriceMismatch,
			Field:   "paid_amount",
			Message: fmt.Sprintf("paid amount %s must equal the category price %s", paidAmount.String(), category.Price.String()),
		}
	}
	return nil
}

// getCategory resolves a tournament category through the read-side cache,
// falling back to the database. Cache failures are logged, never fatal.
func (s *RegistrationService) getCategory(ctx context.Context, id uint) (*domain.TournamentCategory, error) {
	if s.cache != nil {
		if category, err := s.cache.GetCategory(ctx, id); err == nil {
			return category, nil
		}
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound("tournament category")
	}

	if s.cache != nil {
		if err := s.cache.SetCategory(ctx, category, CategoryDetailsTTL); err != nil {
			logger.Warn("Failed to cache category %d: %v", id, err)
		}
	}
	return category, nil
}

// getPlayer resolves a player through the read-side cache; role names the
// payload field for the not-found error.
func (s *RegistrationService) getPlayer(ctx context.Context, id uint, role string) (*domain.Player, error) {
	if s.cache != nil {
		if player, err := s.cache.GetPlayer(ctx, id); err == nil {
			return player, nil
		}
	}

	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, domain.ErrNotFound(role)
	}

	if s.cache != nil {
		if err := s.cache.SetPlayer(ctx, player, PlayerDetailsTTL); err != nil {
			logger.Warn("Failed to cache player %d: %v", id, err)
		}
	}
	return player, nil
}
