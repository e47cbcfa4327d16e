package pricing

import (
	"context"
	"errors"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var (
	ErrOverridePrice   = errors.New("pricing: override price must be positive")
	ErrOverrideMinStay = errors.New("pricing: override minimum stay must be at least 1 night")
)

// DateOverride is a host-specified exception for a single calendar date. A set
// price supersedes all computed pricing for that date; Available=false blocks
// the date regardless of price. Nil fields mean "use computed defaults".
type DateOverride struct {
	Date        time.Time
	Price       *money.Money
	MinimumStay *int
	Available   bool
}

func (o DateOverride) Validate() error {
	if o.Price != nil && !o.Price.IsPositive() {
		return ErrOverridePrice
	}
	if o.MinimumStay != nil && *o.MinimumStay < 1 {
		return ErrOverrideMinStay
	}
	return nil
}

// OverrideSet indexes overrides by calendar date for constant-time lookup
// during stay pricing. Absent dates fall back to computed defaults.
type OverrideSet struct {
	byDate map[time.Time]DateOverride
}

func NewOverrideSet(overrides []DateOverride) (OverrideSet, error) {
	set := OverrideSet{byDate: make(map[time.Time]DateOverride, len(overrides))}
	for _, o := range overrides {
		if err := o.Validate(); err != nil {
			return OverrideSet{}, err
		}
		o.Date = daterange.Day(o.Date)
		set.byDate[o.Date] = o
	}
	return set, nil
}

// Lookup returns the override for the date, if one exists.
func (s OverrideSet) Lookup(date time.Time) (DateOverride, bool) {
	if s.byDate == nil {
		return DateOverride{}, false
	}
	o, ok := s.byDate[daterange.Day(date)]
	return o, ok
}

func (s OverrideSet) Len() int {
	return len(s.byDate)
}

// OverrideRepository persists per-date overrides. ReplaceRange must apply the
// whole batch atomically: either every date in the range reflects the new
// overrides, or none does.
type OverrideRepository interface {
	ForRange(ctx context.Context, id listings.ListingID, dr daterange.DateRange) (OverrideSet, error)
	ReplaceRange(ctx context.Context, id listings.ListingID, dr daterange.DateRange, overrides []DateOverride) error
	ClearRange(ctx context.Context, id listings.ListingID, dr daterange.DateRange) error
}
