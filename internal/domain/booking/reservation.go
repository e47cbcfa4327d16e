package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrReservationNotFound = errors.New("booking: reservation not found")
	ErrInvalidState        = errors.New("booking: invalid state transition")
	ErrGuestRequired       = errors.New("booking: guest id required")
	// ErrConflict is returned when a concurrent transaction already committed
	// an overlapping reservation. It is the one error callers may retry after
	// re-fetching state.
	ErrConflict = errors.New("booking: dates already taken by a concurrent reservation")
)

type ReservationID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Reservation is one guest's stay on one listing. Range is half-open: the
// checkout day itself is free for the next guest.
type Reservation struct {
	ID        ReservationID
	ListingID listings.ListingID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Price     pricing.StayBreakdown
	Policy    PolicyTier
	Status    Status
	Refund    money.Money
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

// Blocks reports whether this reservation still occupies its dates.
// Cancelled stays release their nights.
func (r *Reservation) Blocks() bool {
	return r.Status != StatusCancelled
}

// Repository persists reservations. Create must re-check for an overlapping
// committed reservation inside the same transaction/lock scope and return
// ErrConflict when one exists; availability observed before the write is not
// trusted.
type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Save(ctx context.Context, r *Reservation) error
	ActiveByListing(ctx context.Context, id listings.ListingID) ([]*Reservation, error)
}

type CreateParams struct {
	ID        ReservationID
	ListingID listings.ListingID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Price     pricing.StayBreakdown
	Policy    PolicyTier
	Now       time.Time
}

func NewReservation(params CreateParams) (*Reservation, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.Guests <= 0 {
		return nil, errors.New("booking: guests count must be positive")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if err := params.Policy.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	r := &Reservation{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		Price:     params.Price.Copy(),
		Policy:    params.Policy,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(newReservationRequestedEvent(r, now))
	return r, nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(newReservationConfirmedEvent(r, r.UpdatedAt))
	return nil
}

// Cancel computes the refund under the attached policy and releases the dates.
func (r *Reservation) Cancel(now time.Time) (money.Money, error) {
	switch r.Status {
	case StatusPending, StatusConfirmed:
	default:
		return money.Money{}, ErrInvalidState
	}
	refund, err := CalculateRefund(r.Price.Total, r.Range.CheckIn, r.Policy, now)
	if err != nil {
		return money.Money{}, err
	}
	r.Status = StatusCancelled
	r.Refund = refund
	r.UpdatedAt = now.UTC()
	r.Record(newReservationCancelledEvent(r, refund, r.UpdatedAt))
	return refund, nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.Status != StatusConfirmed {
		return ErrInvalidState
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now.UTC()
	r.Record(newReservationCompletedEvent(r, r.UpdatedAt))
	return nil
}

// HasOverlap is the shared overlap predicate: true when any blocking
// reservation intersects the candidate range. Reused by the availability
// checker and by repositories at the transactional write boundary.
func HasOverlap(reservations []*Reservation, dr daterange.DateRange) bool {
	for _, r := range reservations {
		if r.Blocks() && r.Range.Overlaps(dr) {
			return true
		}
	}
	return false
}
