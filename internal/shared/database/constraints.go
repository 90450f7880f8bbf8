package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the auto-migration cannot express
func MigrateConstraints(db *gorm.DB) error {
	// One confirmed appointment per concrete slot
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_slot
		ON appointments (salon_id, service_id, date, time)
		WHERE status = 'CONFIRMED' AND staff_id IS NULL;
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_confirmed_staff_slot
		ON appointments (salon_id, service_id, staff_id, date, time)
		WHERE status = 'CONFIRMED' AND staff_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Speeds up the per-user appointment listing
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_appointments_user_created
		ON appointments (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
