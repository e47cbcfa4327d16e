package pricing

import (
	"errors"
	"fmt"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

// ErrConfiguration signals a host-side pricing setup that would produce a
// non-positive nightly price. It is never silently coerced.
var ErrConfiguration = errors.New("pricing: configuration yields non-positive price")

// ResolveNightly computes the nightly price for a single date.
//
// Precedence: explicit override price wins verbatim (no multipliers applied
// on top), otherwise the base price gets the weekend multiplier on Fridays
// and Saturdays and then the seasonal multiplier, rounded once at the end.
func ResolveNightly(listing *listings.Listing, overrides OverrideSet, seasons SeasonalIndex, date time.Time) (money.Money, error) {
	if o, ok := overrides.Lookup(date); ok && o.Price != nil {
		if !o.Price.IsPositive() {
			return money.Money{}, fmt.Errorf("%w: override for %s", ErrConfiguration, date.Format("2006-01-02"))
		}
		return *o.Price, nil
	}

	factor := 1.0
	if isWeekendNight(date) {
		factor *= listing.WeekendMultiplier
	}
	factor *= seasons.MultiplierFor(date)

	price := listing.BasePrice.Scale(factor)
	if !price.IsPositive() {
		return money.Money{}, fmt.Errorf("%w: %s", ErrConfiguration, date.Format("2006-01-02"))
	}
	return price, nil
}

// Available reports whether the date is open for booking from the host's
// point of view. Reservation conflicts are a separate concern checked by the
// booking package.
func Available(overrides OverrideSet, date time.Time) bool {
	if o, ok := overrides.Lookup(date); ok {
		return o.Available
	}
	return true
}

// MinimumStay returns the minimum-stay rule in force on the date.
func MinimumStay(listing *listings.Listing, overrides OverrideSet, date time.Time) int {
	if o, ok := overrides.Lookup(date); ok && o.MinimumStay != nil {
		return *o.MinimumStay
	}
	return listing.DefaultMinimumStay
}

// Friday and Saturday nights carry the weekend rate.
func isWeekendNight(date time.Time) bool {
	switch date.UTC().Weekday() {
	case time.Friday, time.Saturday:
		return true
	default:
		return false
	}
}
