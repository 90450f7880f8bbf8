package database

import (
	"slotline/internal/bookings"
	"slotline/internal/catalog"
	"slotline/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&catalog.Salon{},
		&catalog.Service{},
		&catalog.Staff{},
		&bookings.Appointment{},
	)
}
