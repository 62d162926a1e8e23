package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tournament represents a padel tournament
type Tournament struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Tournament) TableName() string { return "tournaments" }

// Player represents a registered padel player
type Player struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NickName  string    `json:"nick_name" gorm:"not null;index"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Player) TableName() string { return "players" }

// TournamentCategory represents one bracket of a tournament with its entry price
type TournamentCategory struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	TournamentID uint            `json:"tournament_id" gorm:"not null;index"`
	Name         string          `json:"name" gorm:"size:30;not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null;default:0"`
	IsActive     bool            `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	Tournament   *Tournament     `json:"tournament,omitempty" gorm:"foreignKey:TournamentID"`
}

func (TournamentCategory) TableName() string { return "tournament_categories" }

// Registration represents one pair (player + partner) entered into a
// tournament category. The pair is stored in the order it was submitted;
// uniqueness checks cover both orderings, so no canonical swap is applied.
type Registration struct {
	ID                   uint                 `json:"id" gorm:"primaryKey"`
	TournamentCategoryID uint                 `json:"tournament_category_id" gorm:"not null;index"`
	PlayerID             uint                 `json:"player_id" gorm:"not null;index"`
	PartnerID            uint                 `json:"partner_id" gorm:"not null;index"`
	PaidAmount           decimal.Decimal      `json:"paid_amount" gorm:"type:numeric(10,2);not null"`
	PaymentReference     string               `json:"payment_reference" gorm:"type:text"`
	Comment              string               `json:"comment" gorm:"size:255"`
	IsActive             bool                 `json:"is_active" gorm:"default:true"`
	PaymentStatus        string               `json:"payment_status" gorm:"size:50;index"`
	CreatedAt            time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
	TournamentCategory   *TournamentCategory  `json:"tournament_category,omitempty" gorm:"foreignKey:TournamentCategoryID"`
	Player               *Player              `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
	Partner              *Player              `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
	Unavailability       []UnavailabilitySlot `json:"unavailability" gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE"`
}

func (Registration) TableName() string { return "registrations" }

// UnavailabilitySlot represents one weekday time window during which the
// pair cannot be scheduled. Times are intraday values ("HH:MM" or
// "HH:MM:SS"); day_of_week runs Monday=0 .. Friday=4.
type UnavailabilitySlot struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	RegistrationID uint      `json:"registration_id" gorm:"not null;index"`
	DayOfWeek      int       `json:"day_of_week" gorm:"not null"`
	StartTime      string    `json:"start_time" gorm:"type:time;not null"`
	EndTime        string    `json:"end_time" gorm:"type:time;not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (UnavailabilitySlot) TableName() string { return "registration_unavailability_slots" }

// Request DTOs

// SlotInput is one unavailability window in a write payload
type SlotInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// CreateRegistrationRequest is the write contract for POST /registrations
type CreateRegistrationRequest struct {
	TournamentCategoryID uint            `json:"tournament_category_id" validate:"required"`
	PlayerID             uint            `json:"player_id" validate:"required"`
	PartnerID            uint            `json:"partner_id" validate:"required"`
	PaidAmount           decimal.Decimal `json:"paid_amount"`
	PaymentReference     string          `json:"payment_reference"`
	Comment              string          `json:"comment" validate:"max=255"`
	IsActive             *bool           `json:"is_active"`
	PaymentStatus        string          `json:"payment_status" validate:"max=50"`
	Unavailability       []SlotInput     `json:"unavailability" validate:"omitempty,dive"`
}

// UpdateRegistrationRequest is the partial write contract for PATCH.
// Pointer fields distinguish "absent" from zero values; a nil Unavailability
// leaves the stored slots untouched, an empty slice clears them.
type UpdateRegistrationRequest struct {
	PlayerID         *uint            `json:"player_id"`
	PartnerID        *uint            `json:"partner_id"`
	PaidAmount       *decimal.Decimal `json:"paid_amount"`
	PaymentReference *string          `json:"payment_reference"`
	Comment          *string          `json:"comment" validate:"omitempty,max=255"`
	IsActive         *bool            `json:"is_active"`
	PaymentStatus    *string          `json:"payment_status" validate:"omitempty,max=50"`
	Unavailability   *[]SlotInput     `json:"unavailability" validate:"omitempty,dive"`
}

// ListFilters narrows a registration listing. Zero values mean "no filter";
// PersonID matches either the player or the partner role.
type ListFilters struct {
	TournamentCategoryID uint
	TournamentID         uint
	PersonID             uint
	PaymentStatus        string
	IsActive             *bool
}
