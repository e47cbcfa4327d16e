package booking

import (
	"errors"
	"fmt"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
)

// ErrUnavailable is the umbrella error for a stay that cannot be booked;
// the wrapped message carries the specific reason.
var ErrUnavailable = errors.New("booking: these dates are no longer available")

// Reason explains why a candidate stay cannot be booked.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonBlocked          Reason = "BLOCKED"
	ReasonBooked           Reason = "BOOKED"
	ReasonBelowMinimumStay Reason = "BELOW_MINIMUM_STAY"
)

// StayCheck is the availability verdict for a candidate range.
type StayCheck struct {
	Available bool
	Reason    Reason
}

// Err converts a negative verdict into an ErrUnavailable-wrapped error.
func (c StayCheck) Err() error {
	if c.Available {
		return nil
	}
	return fmt.Errorf("%w (%s)", ErrUnavailable, c.Reason)
}

// CheckStay validates a candidate stay against host blocks, existing
// reservations and the minimum-stay rule in force on the check-in date.
// The order of checks only affects which reason is reported; any single
// failing condition blocks the stay.
func CheckStay(listing *listings.Listing, overrides pricing.OverrideSet, reservations []*Reservation, dr daterange.DateRange) (StayCheck, error) {
	if err := dr.Validate(); err != nil {
		return StayCheck{}, err
	}

	for _, night := range dr.Days() {
		if !pricing.Available(overrides, night) {
			return StayCheck{Available: false, Reason: ReasonBlocked}, nil
		}
	}

	if HasOverlap(reservations, dr) {
		return StayCheck{Available: false, Reason: ReasonBooked}, nil
	}

	if dr.Nights() < pricing.MinimumStay(listing, overrides, dr.CheckIn) {
		return StayCheck{Available: false, Reason: ReasonBelowMinimumStay}, nil
	}

	return StayCheck{Available: true, Reason: ReasonNone}, nil
}
