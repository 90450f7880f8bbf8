package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound means the requested catalog record does not exist
var ErrNotFound = errors.New("catalog record not found")

type Repository interface {
	GetSalonByID(ctx context.Context, id uuid.UUID) (*Salon, error)
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	ListSalons(ctx context.Context) ([]Salon, error)
	ListSalonServices(ctx context.Context, salonID uuid.UUID) ([]Service, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetSalonByID(ctx context.Context, id uuid.UUID) (*Salon, error) {
	var salon Salon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&salon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &salon, nil
}

func (r *repository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	var service Service
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *repository) GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	var staff Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &staff, nil
}

func (r *repository) ListSalons(ctx context.Context) ([]Salon, error) {
	var salons []Salon
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&salons).Error
	if err != nil {
		return nil, err
	}
	return salons, nil
}

func (r *repository) ListSalonServices(ctx context.Context, salonID uuid.UUID) ([]Service, error) {
	var services []Service
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND is_active = ?", salonID, true).
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}
