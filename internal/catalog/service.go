package catalog

import (
	"context"
	"fmt"
	"time"

	"slotline/internal/waitlist"
	"slotline/pkg/cache"

	"github.com/google/uuid"
)

const displayNameTTL = 15 * time.Minute

// Directory resolves and caches catalog lookups for the rest of the system.
// Display names change rarely, so cache staleness is acceptable.
type Directory struct {
	repo  Repository
	cache cache.Service
}

// NewDirectory creates a catalog directory. The cache is optional; without it
// every lookup hits the database.
func NewDirectory(repo Repository, cacheService cache.Service) *Directory {
	return &Directory{
		repo:  repo,
		cache: cacheService,
	}
}

// DisplayNames resolves salon, service and staff names for presentation.
// Implements the waitlist engine's catalog collaborator.
func (d *Directory) DisplayNames(ctx context.Context, salonID, serviceID uuid.UUID, staffID *uuid.UUID) (waitlist.CatalogNames, error) {
	var names waitlist.CatalogNames

	salon, err := d.getSalon(ctx, salonID)
	if err != nil {
		return names, err
	}
	names.Salon = salon.Name

	service, err := d.getService(ctx, serviceID)
	if err != nil {
		return names, err
	}
	names.Service = service.Name

	if staffID != nil {
		staff, err := d.repo.GetStaffByID(ctx, *staffID)
		if err != nil {
			return names, err
		}
		names.Staff = staff.Name
	}
	return names, nil
}

// ListSalons returns all active salons
func (d *Directory) ListSalons(ctx context.Context) ([]Salon, error) {
	return d.repo.ListSalons(ctx)
}

// ListSalonServices returns a salon's active service offerings
func (d *Directory) ListSalonServices(ctx context.Context, salonID uuid.UUID) ([]Service, error) {
	return d.repo.ListSalonServices(ctx, salonID)
}

func (d *Directory) getSalon(ctx context.Context, id uuid.UUID) (*Salon, error) {
	if d.cache == nil {
		return d.repo.GetSalonByID(ctx, id)
	}

	var salon Salon
	err := d.cache.GetOrSet(ctx, fmt.Sprintf("catalog:salon:%s", id), displayNameTTL,
		func() (interface{}, error) {
			return d.repo.GetSalonByID(ctx, id)
		}, &salon)
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (d *Directory) getService(ctx context.Context, id uuid.UUID) (*Service, error) {
	if d.cache == nil {
		return d.repo.GetServiceByID(ctx, id)
	}

	var service Service
	err := d.cache.GetOrSet(ctx, fmt.Sprintf("catalog:service:%s", id), displayNameTTL,
		func() (interface{}, error) {
			return d.repo.GetServiceByID(ctx, id)
		}, &service)
	if err != nil {
		return nil, err
	}
	return &service, nil
}
