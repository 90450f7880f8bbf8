package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateAppointment(ctx context.Context, appointment *Appointment) error
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetUserAppointments(ctx context.Context, userID uuid.UUID) ([]Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string, cancelledAt *time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAppointment(ctx context.Context, appointment *Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *repository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var appointment Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *repository) GetUserAppointments(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	var appointments []Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *repository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status string, cancelledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	return r.db.WithContext(ctx).
		Model(&Appointment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
