package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Salon is a bookable business location
type Salon struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(32)" json:"phone"`
	Timezone  string    `gorm:"type:varchar(64);default:'UTC'" json:"timezone"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Services []Service `json:"services,omitempty" gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE;"`
	Staff    []Staff   `json:"staff,omitempty" gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE;"`
}

// Service is an offering a salon's customers can queue for
type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SalonID         uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           float64   `gorm:"not null" json:"price"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Staff is a service provider working at a salon
type Staff struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SalonID   uuid.UUID `gorm:"type:uuid;index;not null" json:"salon_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Title     string    `gorm:"type:varchar(128)" json:"title"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Salon
func (Salon) TableName() string {
	return "salons"
}

// TableName sets the table name for Service
func (Service) TableName() string {
	return "services"
}

// TableName sets the table name for Staff
func (Staff) TableName() string {
	return "staff"
}
