package pricing

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

// DayPricing is one calendar-day entry of a host's pricing calendar.
type DayPricing struct {
	Date        time.Time
	Price       money.Money
	Available   bool
	Custom      bool
	MinimumStay int
}

// MonthPricing projects the resolver over every day of the given month.
// Custom is set only when an explicit override price exists and actually
// changes the outcome versus the computed price.
func MonthPricing(listing *listings.Listing, overrides OverrideSet, seasons SeasonalIndex, year int, month time.Month) ([]DayPricing, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	days := make([]DayPricing, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		price, err := ResolveNightly(listing, overrides, seasons, d)
		if err != nil {
			return nil, err
		}
		days = append(days, DayPricing{
			Date:        d,
			Price:       price,
			Available:   Available(overrides, d),
			Custom:      overrideChangesPrice(listing, overrides, seasons, d),
			MinimumStay: MinimumStay(listing, overrides, d),
		})
	}
	return days, nil
}

func overrideChangesPrice(listing *listings.Listing, overrides OverrideSet, seasons SeasonalIndex, date time.Time) bool {
	o, ok := overrides.Lookup(date)
	if !ok || o.Price == nil {
		return false
	}
	factor := 1.0
	if isWeekendNight(date) {
		factor *= listing.WeekendMultiplier
	}
	factor *= seasons.MultiplierFor(date)
	computed := listing.BasePrice.Scale(factor)
	return o.Price.Amount != computed.Amount
}
