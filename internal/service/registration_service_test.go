package service

import (
	"context"
	"testing"

	"padel-backend/internal/config"
	domain "padel-backend/internal/domain/registration"
	"padel-backend/internal/infrastructure/repository"

	"github.com/shopspring/decimal"
)

func newTestService(t *testing.T, cfg config.RegistrationConfig) (*RegistrationService, *repository.MockRegistrationRepository) {
	t.Helper()

	categories := repository.NewMockCategoryRepository()
	categories.Add(&domain.TournamentCategory{ID: 10, TournamentID: 1, Name: "4ta", Price: decimal.RequireFromString("50.00")})
	categories.Add(&domain.TournamentCategory{ID: 11, TournamentID: 1, Name: "5ta", Price: decimal.RequireFromString("50.00")})
	categories.Add(&domain.TournamentCategory{ID: 20, TournamentID: 2, Name: "Mixto B", Price: decimal.RequireFromString("30.00")})

	players := repository.NewMockPlayerRepository()
	for id := uint(1); id <= 6; id++ {
		players.Add(&domain.Player{ID: id, IsActive: true})
	}

	regRepo := repository.NewMockRegistrationRepository(categories)
	svc := NewRegistrationService(regRepo, categories, players, nil, cfg)
	return svc, regRepo
}

func createReq(categoryID, playerID, partnerID uint, paid string) *domain.CreateRegistrationRequest {
	return &domain.CreateRegistrationRequest{
		TournamentCategoryID: categoryID,
		PlayerID:             playerID,
		PartnerID:            partnerID,
		PaidAmount:           decimal.RequireFromString(paid),
	}
}

func domainCode(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	if err == nil {
		t.Fatal("Expected a domain error, got nil")
	}
	de, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("Expected *domain.Error, got %T: %v", err, err)
	}
	return de.Code
}

func TestCreate_Success(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	reg, err := svc.Create(ctx, createReq(10, 1, 2, "50.00"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reg.ID == 0 {
		t.Fatal("Expected a persisted registration with an id")
	}
	if reg.PlayerID != 1 || reg.PartnerID != 2 {
		t.Errorf("Expected pair (1, 2), got (%d, %d)", reg.PlayerID, reg.PartnerID)
	}
	if !reg.IsActive {
		t.Error("Expected registration to default to active")
	}
	if !reg.PaidAmount.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("Expected paid_amount 50.00, got %s", reg.PaidAmount)
	}
}

func TestCreate_KeepsSubmittedOrder(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})

	reg, err := svc.Create(context.Background(), createReq(10, 4, 3, "50.00"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reg.PlayerID != 4 || reg.PartnerID != 3 {
		t.Errorf("Pair must be stored as submitted, got (%d, %d)", reg.PlayerID, reg.PartnerID)
	}
}

func TestCreate_SamePersonTwice(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})

	_, err := svc.Create(context.Background(), createReq(10, 3, 3, "50.00"))
	if code := domainCode(t, err); code != domain.CodeInvalidPair {
		t.Errorf("Expected invalid_pair, got %s", code)
	}

	regs, _ := regRepo.List(context.Background(), domain.ListFilters{})
	if len(regs) != 0 {
		t.Errorf("Invalid pair must never reach storage, found %d rows", len(regs))
	}
}

func TestCreate_DuplicateRules(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(10, 1, 2, "50.00")); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	// Same pair, inverted order
	_, err := svc.Create(ctx, createReq(10, 2, 1, "50.00"))
	if code := domainCode(t, err); code != domain.CodeDuplicatePair {
		t.Errorf("Expected duplicate_pair for inverted pair, got %s", code)
	}

	// Player 1 already used
	_, err = svc.Create(ctx, createReq(10, 1, 3, "50.00"))
	if code := domainCode(t, err); code != domain.CodeDuplicateParticipant {
		t.Errorf("Expected duplicate_participant for reused player, got %s", code)
	}

	// Player 2 already used, now in the partner role
	_, err = svc.Create(ctx, createReq(10, 4, 2, "50.00"))
	if code := domainCode(t, err); code != domain.CodeDuplicateParticipant {
		t.Errorf("Expected duplicate_participant for reused partner, got %s", code)
	}

	// Fresh pair still goes through
	if _, err := svc.Create(ctx, createReq(10, 4, 5, "50.00")); err != nil {
		t.Errorf("Unrelated pair should register, got %v", err)
	}
}

func TestCreate_TournamentScopeBlocksOtherCategories(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{UniquenessScope: config.ScopeTournament})
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(10, 1, 2, "50.00")); err != nil {
		t.Fatalf("First create failed: %v", err)
	}

	// Category 11 belongs to the same tournament
	_, err := svc.Create(ctx, createReq(11, 1, 5, "50.00"))
	if code := domainCode(t, err); code != domain.CodeDuplicateParticipant {
		t.Errorf("Expected duplicate_participant across categories, got %s", code)
	}

	// Category 20 belongs to another tournament
	if _, err := svc.Create(ctx, createReq(20, 1, 5, "30.00")); err != nil {
		t.Errorf("Another tournament must not be affected, got %v", err)
	}
}

func TestCreate_CategoryScopeAllowsOtherCategories(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{UniquenessScope: config.ScopeCategory})
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(10, 1, 2, "50.00")); err != nil {
		t.Fatalf("First create failed: %v", err)
	}
	if _, err := svc.Create(ctx, createReq(11, 1, 5, "50.00")); err != nil {
		t.Errorf("Category scope must allow the same player in a sibling category, got %v", err)
	}
}

func TestCreate_PriceReconciliation(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{EnforceExactPrice: true})
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(10, 1, 2, "40.00"))
	if code := domainCode(t, err); code != domain.CodePriceMismatch {
		t.Errorf("Expected price_mismatch, got %s", code)
	}

	if _, err := svc.Create(ctx, createReq(10, 1, 2, "50.00")); err != nil {
		t.Errorf("Exact amount must pass, got %v", err)
	}

	// Disabled by default
	svc, _ = newTestService(t, config.RegistrationConfig{})
	if _, err := svc.Create(ctx, createReq(10, 3, 4, "10.00")); err != nil {
		t.Errorf("Price rule must be off by default, got %v", err)
	}
}

func TestCreate_MissingCollaborators(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(999, 1, 2, "50.00"))
	if code := domainCode(t, err); code != domain.CodeNotFound {
		t.Errorf("Expected not_found for missing category, got %s", code)
	}

	_, err = svc.Create(ctx, createReq(10, 999, 2, "50.00"))
	if code := domainCode(t, err); code != domain.CodeNotFound {
		t.Errorf("Expected not_found for missing player, got %s", code)
	}
}

func TestCreate_WithSlots(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{
		{DayOfWeek: 2, StartTime: "18:00", EndTime: "19:00"},
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
	}

	reg, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(reg.Unavailability) != 2 {
		t.Fatalf("Expected 2 slots on the returned registration, got %d", len(reg.Unavailability))
	}
	if reg.Unavailability[0].DayOfWeek != 0 {
		t.Errorf("Slots must come back ordered by day, got day %d first", reg.Unavailability[0].DayOfWeek)
	}
	if regRepo.SlotCount(reg.ID) != 2 {
		t.Errorf("Expected 2 persisted slots, got %d", regRepo.SlotCount(reg.ID))
	}
}

func TestCreate_InvalidSlotsRejectWholeRegistration(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"},
		{DayOfWeek: 0, StartTime: "10:00", EndTime: "11:00"},
	}

	_, err := svc.Create(context.Background(), req)
	if code := domainCode(t, err); code != domain.CodeOverlappingSlot {
		t.Errorf("Expected overlapping_slot, got %s", code)
	}

	regs, _ := regRepo.List(context.Background(), domain.ListFilters{})
	if len(regs) != 0 {
		t.Errorf("Failed slot validation must not persist the registration, found %d rows", len(regs))
	}
}

func TestCreate_StorageConflictSurfaces(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})
	regRepo.CreateErr = domain.ErrStorageConflict()

	_, err := svc.Create(context.Background(), createReq(10, 1, 2, "50.00"))
	if code := domainCode(t, err); code != domain.CodeStorageConflict {
		t.Errorf("Expected storage_conflict, got %s", code)
	}
}

func TestUpdate_FieldsOnlyLeavesSlotsUntouched(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{
		{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 1, StartTime: "18:00", EndTime: "19:30"},
	}
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	amount := decimal.RequireFromString("75.00")
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateRegistrationRequest{PaidAmount: &amount})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !updated.PaidAmount.Equal(amount) {
		t.Errorf("Expected paid_amount 75.00, got %s", updated.PaidAmount)
	}
	if len(updated.Unavailability) != 2 {
		t.Fatalf("Slots must be untouched when the key is absent, got %d", len(updated.Unavailability))
	}
	for i, slot := range created.Unavailability {
		got := updated.Unavailability[i]
		if got.DayOfWeek != slot.DayOfWeek || got.StartTime != slot.StartTime || got.EndTime != slot.EndTime {
			t.Errorf("Slot %d changed: %+v != %+v", i, got, slot)
		}
	}
	if regRepo.SlotCount(created.ID) != 2 {
		t.Errorf("Expected 2 persisted slots, got %d", regRepo.SlotCount(created.ID))
	}
}

func TestUpdate_EmptySlotListClearsAll(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"}}
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	empty := []domain.SlotInput{}
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateRegistrationRequest{Unavailability: &empty})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Unavailability) != 0 {
		t.Errorf("Empty unavailability list must clear all slots, got %d", len(updated.Unavailability))
	}
	if regRepo.SlotCount(created.ID) != 0 {
		t.Errorf("Expected 0 persisted slots, got %d", regRepo.SlotCount(created.ID))
	}
}

func TestUpdate_ReplacesSlotSet(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"}}
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newSlots := []domain.SlotInput{
		{DayOfWeek: 3, StartTime: "12:00", EndTime: "13:00"},
		{DayOfWeek: 4, StartTime: "08:00", EndTime: "09:15"},
	}
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateRegistrationRequest{Unavailability: &newSlots})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Unavailability) != 2 {
		t.Fatalf("Expected replaced set of 2 slots, got %d", len(updated.Unavailability))
	}
	if updated.Unavailability[0].DayOfWeek != 3 || updated.Unavailability[1].DayOfWeek != 4 {
		t.Errorf("Old slots must be gone, got %+v", updated.Unavailability)
	}
}

func TestUpdate_PairChangeRunsUniquenessChecks(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq(10, 1, 2, "50.00"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := svc.Create(ctx, createReq(10, 3, 4, "50.00"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Moving the second pair onto an already-registered person
	one := uint(1)
	_, err = svc.Update(ctx, second.ID, &domain.UpdateRegistrationRequest{PlayerID: &one})
	if code := domainCode(t, err); code != domain.CodeDuplicateParticipant {
		t.Errorf("Expected duplicate_participant, got %s", code)
	}

	// Same person in both roles
	three := uint(3)
	_, err = svc.Update(ctx, second.ID, &domain.UpdateRegistrationRequest{PartnerID: &three})
	if code := domainCode(t, err); code != domain.CodeInvalidPair {
		t.Errorf("Expected invalid_pair, got %s", code)
	}

	// Swapping the partner of (1, 2) to player 5 changes the pair, so the
	// checks rerun for player 1; only the exclusion of the row being updated
	// keeps its own registration from counting as a duplicate.
	five := uint(5)
	updated, err := svc.Update(ctx, first.ID, &domain.UpdateRegistrationRequest{PartnerID: &five})
	if err != nil {
		t.Fatalf("Pair change against own registration must pass, got %v", err)
	}
	if updated.PlayerID != 1 || updated.PartnerID != 5 {
		t.Errorf("Expected pair (1, 5), got (%d, %d)", updated.PlayerID, updated.PartnerID)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})

	_, err := svc.Update(context.Background(), 404, &domain.UpdateRegistrationRequest{})
	if code := domainCode(t, err); code != domain.CodeNotFound {
		t.Errorf("Expected not_found, got %s", code)
	}
}

func TestDelete_CascadesSlots(t *testing.T) {
	svc, regRepo := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	req := createReq(10, 1, 2, "50.00")
	req.Unavailability = []domain.SlotInput{{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00"}}
	created, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(ctx, created.ID); err == nil {
		t.Error("Expected not_found after delete")
	}
	if regRepo.SlotCount(created.ID) != 0 {
		t.Errorf("Expected no orphaned slots, got %d", regRepo.SlotCount(created.ID))
	}

	err = svc.Delete(ctx, created.ID)
	if code := domainCode(t, err); code != domain.CodeNotFound {
		t.Errorf("Expected not_found for a second delete, got %s", code)
	}
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService(t, config.RegistrationConfig{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, createReq(10, 1, 2, "50.00")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, createReq(20, 1, 5, "30.00")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	regs, err := svc.List(ctx, domain.ListFilters{TournamentCategoryID: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(regs) != 1 {
		t.Errorf("Expected 1 registration in category 10, got %d", len(regs))
	}

	regs, _ = svc.List(ctx, domain.ListFilters{PersonID: 1})
	if len(regs) != 2 {
		t.Errorf("Expected 2 registrations for person 1, got %d", len(regs))
	}

	regs, _ = svc.List(ctx, domain.ListFilters{TournamentID: 2})
	if len(regs) != 1 {
		t.Errorf("Expected 1 registration in tournament 2, got %d", len(regs))
	}
}
