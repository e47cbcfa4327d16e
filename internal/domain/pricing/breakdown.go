package pricing

import (
	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

// StayBreakdown itemizes the cost of a candidate stay.
type StayBreakdown struct {
	Nights        int
	Nightly       []money.Money
	Accommodation money.Money
	CleaningFee   money.Money
	ServiceFee    money.Money
	Total         money.Money
}

// QuoteStay prices every night of the range and sums the totals. It does not
// enforce availability: pricing a blocked range is legal for previews, where
// the caller shows "not available" next to the estimate.
func QuoteStay(listing *listings.Listing, overrides OverrideSet, seasons SeasonalIndex, dr daterange.DateRange) (StayBreakdown, error) {
	if err := dr.Validate(); err != nil {
		return StayBreakdown{}, err
	}

	nights := dr.Nights()
	nightly := make([]money.Money, 0, nights)
	accommodation := money.Zero(listing.BasePrice.Currency)
	for _, night := range dr.Days() {
		price, err := ResolveNightly(listing, overrides, seasons, night)
		if err != nil {
			return StayBreakdown{}, err
		}
		nightly = append(nightly, price)
		sum, err := accommodation.Add(price)
		if err != nil {
			return StayBreakdown{}, err
		}
		accommodation = sum
	}

	total := accommodation
	for _, fee := range []money.Money{listing.CleaningFee, listing.ServiceFee} {
		if fee.Currency == "" {
			continue
		}
		sum, err := total.Add(fee)
		if err != nil {
			return StayBreakdown{}, err
		}
		total = sum
	}

	return StayBreakdown{
		Nights:        nights,
		Nightly:       nightly,
		Accommodation: accommodation,
		CleaningFee:   listing.CleaningFee,
		ServiceFee:    listing.ServiceFee,
		Total:         total,
	}, nil
}

// Copy returns a deep copy so stored quotes cannot alias caller slices.
func (b StayBreakdown) Copy() StayBreakdown {
	clone := b
	clone.Nightly = append([]money.Money(nil), b.Nightly...)
	return clone
}
