package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"slotline/internal/waitlist"
	"slotline/pkg/logger"

	"github.com/google/uuid"
)

var (
	// ErrAppointmentNotFound means the appointment id is unknown
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAppointmentForbidden means the caller does not own the appointment
	ErrAppointmentForbidden = errors.New("appointment belongs to another user")

	// ErrAlreadyCancelled means the appointment was cancelled before
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

// SlotReleaseHandler receives freed slots when appointments are cancelled.
// Satisfied by the waitlist service; declared here so bookings depend on
// behavior, not on wiring.
type SlotReleaseHandler interface {
	HandleSlotFreed(ctx context.Context, freed waitlist.FreedSlot) (*waitlist.Entry, error)
}

// Service manages salon appointments and feeds freed slots back to the
// waitlist when a booking is cancelled.
type Service struct {
	repo     Repository
	waitlist SlotReleaseHandler
	log      *logger.Logger
}

// NewService creates a new bookings service. The slot release handler may be
// attached later via SetSlotReleaseHandler to break the construction cycle
// with the waitlist service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// SetSlotReleaseHandler attaches the waitlist hook for cancelled appointments
func (s *Service) SetSlotReleaseHandler(handler SlotReleaseHandler) {
	s.waitlist = handler
}

// CreateFromWaitlist mints a confirmed appointment from an accepted waitlist
// offer. Implements the waitlist engine's booking collaborator.
func (s *Service) CreateFromWaitlist(ctx context.Context, entry *waitlist.Entry) (uuid.UUID, error) {
	if entry.Offer == nil {
		return uuid.Nil, fmt.Errorf("waitlist entry %s has no slot offer", entry.ID)
	}

	appointment := &Appointment{
		ID:         uuid.New(),
		UserID:     entry.UserID,
		SalonID:    entry.SalonID,
		ServiceID:  entry.ServiceID,
		StaffID:    entry.Offer.StaffID,
		Date:       entry.Offer.Date,
		Time:       entry.Offer.Time,
		Status:     "CONFIRMED",
		Source:     SourceWaitlist,
		BookingRef: NewBookingRef(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.repo.CreateAppointment(ctx, appointment); err != nil {
		return uuid.Nil, fmt.Errorf("create appointment: %w", err)
	}

	s.log.Info("appointment created from waitlist",
		slog.String("appointment_id", appointment.ID.String()),
		slog.String("booking_ref", appointment.BookingRef),
		slog.String("entry_id", entry.ID.String()),
	)
	return appointment.ID, nil
}

// Cancel cancels the caller's appointment and offers the freed slot to the
// waitlist. A missing waitlist match is not an error; the slot simply opens.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) (*Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, ErrAppointmentForbidden
	}
	if appointment.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	appointment.Cancel()
	if err := s.repo.UpdateAppointmentStatus(ctx, appointment.ID, appointment.Status, appointment.CancelledAt); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	s.log.LogBookingCancelled(ctx, appointment.ID.String(), userID.String())

	if s.waitlist != nil {
		freed := waitlist.FreedSlot{
			SalonID:   appointment.SalonID,
			ServiceID: appointment.ServiceID,
			StaffID:   appointment.StaffID,
			Date:      appointment.Date,
			Time:      appointment.Time,
		}
		if _, err := s.waitlist.HandleSlotFreed(ctx, freed); err != nil && !errors.Is(err, waitlist.ErrNoMatch) {
			s.log.Error("failed to offer freed slot to waitlist",
				slog.String("appointment_id", appointment.ID.String()),
				slog.Any("error", err),
			)
		}
	}
	return appointment, nil
}

// Get returns a single appointment visible to its owner
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Appointment, error) {
	appointment, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, ErrAppointmentForbidden
	}
	return appointment, nil
}

// ListForUser returns the caller's appointments, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	return s.repo.GetUserAppointments(ctx, userID)
}
