package repository

import (
	"context"
	"sort"
	"sync"

	domain "padel-backend/internal/domain/registration"

	"github.com/shopspring/decimal"
)

// MockRegistrationRepository is an in-memory implementation of
// domain.RegistrationRepository for tests and local development. It mirrors
// the relational semantics of the GORM repository, including slot ordering
// and either-order pair matching.
type MockRegistrationRepository struct {
	mu            sync.Mutex
	nextID        uint
	registrations map[uint]*domain.Registration
	slots         map[uint][]domain.UnavailabilitySlot
	categories    *MockCategoryRepository

	// CreateErr, when set, is returned by Create to simulate storage
	// failures such as a unique-constraint race.
	CreateErr error
}

// NewMockRegistrationRepository creates an empty in-memory repository.
// The category repository is needed to resolve tournament-wide scope checks.
func NewMockRegistrationRepository(categories *MockCategoryRepository) *MockRegistrationRepository {
	return &MockRegistrationRepository{
		nextID:        1,
		registrations: make(map[uint]*domain.Registration),
		slots:         make(map[uint][]domain.UnavailabilitySlot),
		categories:    categories,
	}
}

func (m *MockRegistrationRepository) copyOf(reg *domain.Registration) *domain.Registration {
	out := *reg
	slots := m.slots[reg.ID]
	out.Unavailability = make([]domain.UnavailabilitySlot, len(slots))
	copy(out.Unavailability, slots)
	sort.Slice(out.Unavailability, func(i, j int) bool {
		a, b := out.Unavailability[i], out.Unavailability[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.StartTime < b.StartTime
	})
	if m.categories != nil {
		if cat, _ := m.categories.GetByID(context.Background(), reg.TournamentCategoryID); cat != nil {
			out.TournamentCategory = cat
		}
	}
	return &out
}

func (m *MockRegistrationRepository) List(ctx context.Context, filters domain.ListFilters) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Registration
	for _, reg := range m.registrations {
		if filters.TournamentCategoryID != 0 && reg.TournamentCategoryID != filters.TournamentCategoryID {
			continue
		}
		if filters.TournamentID != 0 && m.tournamentOf(reg.TournamentCategoryID) != filters.TournamentID {
			continue
		}
		if filters.PersonID != 0 && reg.PlayerID != filters.PersonID && reg.PartnerID != filters.PersonID {
			continue
		}
		if filters.PaymentStatus != "" && reg.PaymentStatus != filters.PaymentStatus {
			continue
		}
		if filters.IsActive != nil && reg.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, m.copyOf(reg))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id uint) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.registrations[id]
	if !ok {
		return nil, nil
	}
	return m.copyOf(reg), nil
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}

	registration.ID = m.nextID
	m.nextID++
	stored := *registration
	m.registrations[stored.ID] = &stored
	return nil
}

func (m *MockRegistrationRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.registrations[id]
	if !ok {
		return nil
	}
	for column, value := range fields {
		switch column {
		case "player_id":
			reg.PlayerID = value.(uint)
		case "partner_id":
			reg.PartnerID = value.(uint)
		case "paid_amount":
			reg.PaidAmount = value.(decimal.Decimal)
		case "payment_reference":
			reg.PaymentReference = value.(string)
		case "comment":
			reg.Comment = value.(string)
		case "is_active":
			reg.IsActive = value.(bool)
		case "payment_status":
			reg.PaymentStatus = value.(string)
		}
	}
	return nil
}

func (m *MockRegistrationRepository) Delete(ctx context.Context, registration *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.registrations, registration.ID)
	delete(m.slots, registration.ID)
	return nil
}

func (m *MockRegistrationRepository) BulkInsertSlots(ctx context.Context, registrationID uint, slots []domain.SlotInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, slot := range slots {
		m.slots[registrationID] = append(m.slots[registrationID], domain.UnavailabilitySlot{
			RegistrationID: registrationID,
			DayOfWeek:      slot.DayOfWeek,
			StartTime:      slot.StartTime,
			EndTime:        slot.EndTime,
		})
	}
	return nil
}

func (m *MockRegistrationRepository) ReplaceSlots(ctx context.Context, registrationID uint, slots []domain.SlotInput) error {
	m.mu.Lock()
	m.slots[registrationID] = nil
	m.mu.Unlock()
	return m.BulkInsertSlots(ctx, registrationID, slots)
}

func (m *MockRegistrationRepository) ExistsPairInCategory(ctx context.Context, categoryID, playerID, partnerID, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, reg := range m.registrations {
		if reg.ID == excludeID || reg.TournamentCategoryID != categoryID {
			continue
		}
		if (reg.PlayerID == playerID && reg.PartnerID == partnerID) ||
			(reg.PlayerID == partnerID && reg.PartnerID == playerID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRegistrationRepository) ExistsPlayerInCategory(ctx context.Context, categoryID, playerID, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, reg := range m.registrations {
		if reg.ID != excludeID && reg.TournamentCategoryID == categoryID && reg.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRegistrationRepository) ExistsPartnerInCategory(ctx context.Context, categoryID, partnerID, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, reg := range m.registrations {
		if reg.ID != excludeID && reg.TournamentCategoryID == categoryID && reg.PartnerID == partnerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRegistrationRepository) ExistsPersonInTournament(ctx context.Context, tournamentID, personID, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, reg := range m.registrations {
		if reg.ID == excludeID || m.tournamentOf(reg.TournamentCategoryID) != tournamentID {
			continue
		}
		if reg.PlayerID == personID || reg.PartnerID == personID {
			return true, nil
		}
	}
	return false, nil
}

// tournamentOf resolves a category to its tournament; callers hold the lock
func (m *MockRegistrationRepository) tournamentOf(categoryID uint) uint {
	if m.categories == nil {
		return 0
	}
	cat, _ := m.categories.GetByID(context.Background(), categoryID)
	if cat == nil {
		return 0
	}
	return cat.TournamentID
}

// Transaction runs fn against the same in-memory store; rollback is not
// simulated, which is fine for the validation-ordering tests that use it.
func (m *MockRegistrationRepository) Transaction(ctx context.Context, fn func(domain.RegistrationRepository) error) error {
	return fn(m)
}

// SlotCount reports the stored slot count for a registration (test helper)
func (m *MockRegistrationRepository) SlotCount(registrationID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots[registrationID])
}

// MockCategoryRepository is an in-memory domain.CategoryRepository
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[uint]*domain.TournamentCategory
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[uint]*domain.TournamentCategory)}
}

func (m *MockCategoryRepository) Add(category *domain.TournamentCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*domain.TournamentCategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cat, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	out := *cat
	return &out, nil
}

// MockPlayerRepository is an in-memory domain.PlayerRepository
type MockPlayerRepository struct {
	mu      sync.RWMutex
	players map[uint]*domain.Player
}

func NewMockPlayerRepository() *MockPlayerRepository {
	return &MockPlayerRepository{players: make(map[uint]*domain.Player)}
}

func (m *MockPlayerRepository) Add(player *domain.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[player.ID] = player
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id uint) (*domain.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	player, ok := m.players[id]
	if !ok {
		return nil, nil
	}
	out := *player
	return &out, nil
}
