package waitlist

import "errors"

// Business errors returned as typed results so the presentation layer can
// render a specific message. None of these are retried automatically.
var (
	// ErrNotFound means the entry id is unknown
	ErrNotFound = errors.New("waitlist entry not found")

	// ErrForbidden means the caller is not the entry's owner
	ErrForbidden = errors.New("entry belongs to another user")

	// ErrInvalidState means the operation is not valid for the current status
	ErrInvalidState = errors.New("operation not valid for current entry status")

	// ErrAlreadyQueued means the user already has an active entry for the
	// same service and preferred date
	ErrAlreadyQueued = errors.New("already queued for this service and date")

	// ErrOfferExpired means the offer deadline passed before the confirm
	// attempt. The entry is moved to EXPIRED as a side effect, so a retried
	// confirm yields ErrInvalidState.
	ErrOfferExpired = errors.New("slot offer has expired")

	// ErrNoMatch is the no-op signal from offer matching: no waiting entry
	// fits the freed slot. Not a failure.
	ErrNoMatch = errors.New("no waiting entry matches the freed slot")

	// ErrSlotHeld means another entry already holds an offer for the slot
	ErrSlotHeld = errors.New("slot is already held by an active offer")

	// ErrGroupFull means the (service, date) group reached its size cap
	ErrGroupFull = errors.New("waitlist is full for this service and date")
)
