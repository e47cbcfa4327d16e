package hostpricing

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/dto"
	handlersupport "staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

const monthCalendarKey = "host.pricing.calendar"

var ErrInvalidMonth = errors.New("hostpricing: month must be between 1 and 12")

type MonthCalendarQuery struct {
	ListingID string
	Year      int
	Month     int
}

func (q MonthCalendarQuery) Key() string { return monthCalendarKey }

// MonthCalendarHandler projects nightly prices, availability and minimum-stay
// rules over one calendar month for the host calendar view.
type MonthCalendarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *MonthCalendarHandler) Handle(ctx context.Context, q MonthCalendarQuery) (dto.MonthCalendar, error) {
	var zero dto.MonthCalendar
	if q.Month < 1 || q.Month > 12 {
		return zero, ErrInvalidMonth
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listingID := domainlistings.ListingID(q.ListingID)
	listing, err := unit.Listings().ByID(execCtx, listingID)
	if err != nil {
		return zero, err
	}

	month := time.Month(q.Month)
	first := time.Date(q.Year, month, 1, 0, 0, 0, 0, time.UTC)
	monthRange, err := domainrange.New(first, first.AddDate(0, 1, 0))
	if err != nil {
		return zero, err
	}
	overrides, err := unit.Overrides().ForRange(execCtx, listingID, monthRange)
	if err != nil {
		return zero, err
	}
	seasons, err := unit.Seasons().ForListing(execCtx, listingID)
	if err != nil {
		return zero, err
	}

	days, err := domainpricing.MonthPricing(listing, overrides, seasons, q.Year, month)
	if err != nil {
		return zero, err
	}
	return dto.MapMonthCalendar(q.ListingID, q.Year, month, days), nil
}

var _ queries.Handler[MonthCalendarQuery, dto.MonthCalendar] = (*MonthCalendarHandler)(nil)
