package booking

import (
	"context"
	"time"

	"staybook/internal/app/dto"
	handlersupport "staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

const quoteStayKey = "booking.quote"

type QuoteStayQuery struct {
	ListingID string
	CheckIn   time.Time
	CheckOut  time.Time
}

func (q QuoteStayQuery) Key() string { return quoteStayKey }

// QuoteStayHandler prices a candidate stay without persisting anything.
// A blocked range still gets a price estimate so the caller can show
// "not available" next to it.
type QuoteStayHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (dto.StayQuote, error) {
	var zero dto.StayQuote

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return zero, err
	}

	listingID := domainlistings.ListingID(q.ListingID)
	listing, err := unit.Listings().ByID(execCtx, listingID)
	if err != nil {
		return zero, err
	}
	overrides, err := unit.Overrides().ForRange(execCtx, listingID, dr)
	if err != nil {
		return zero, err
	}
	seasons, err := unit.Seasons().ForListing(execCtx, listingID)
	if err != nil {
		return zero, err
	}
	existing, err := unit.Reservations().ActiveByListing(execCtx, listingID)
	if err != nil {
		return zero, err
	}

	check, err := domainbooking.CheckStay(listing, overrides, existing, dr)
	if err != nil {
		return zero, err
	}
	breakdown, err := domainpricing.QuoteStay(listing, overrides, seasons, dr)
	if err != nil {
		return zero, err
	}

	return dto.MapStayQuote(check, breakdown), nil
}

var _ queries.Handler[QuoteStayQuery, dto.StayQuote] = (*QuoteStayHandler)(nil)
