package hostpricing

import (
	"context"
	"errors"
	"log/slog"

	"staybook/internal/app/dto"
	handlersupport "staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
)

const priceSuggestionKey = "host.pricing.suggestion"

type PriceSuggestionQuery struct {
	HostID    string
	ListingID string
}

func (q PriceSuggestionQuery) Key() string { return priceSuggestionKey }

// PriceSuggestionHandler compares the listing's base price against other
// active listings in the same city. With no comparables it reports
// insufficient data rather than failing.
type PriceSuggestionHandler struct {
	Logger     *slog.Logger
	UoWFactory uow.UoWFactory
}

func (h *PriceSuggestionHandler) Handle(ctx context.Context, q PriceSuggestionQuery) (dto.PriceSuggestion, error) {
	var zero dto.PriceSuggestion

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return zero, err
	}
	if !listing.OwnedBy(domainlistings.HostID(q.HostID)) {
		return zero, ErrListingNotOwned
	}

	comparables, err := unit.Listings().ComparableRates(execCtx, listing.City, listing.ID)
	if err != nil {
		return zero, err
	}

	suggestion, err := domainpricing.Suggest(listing.BasePrice, comparables)
	if errors.Is(err, domainpricing.ErrInsufficientData) {
		return dto.PriceSuggestion{
			ListingID:    q.ListingID,
			CurrentPrice: dto.MapMoney(listing.BasePrice),
			Message:      "Not enough comparable listings in your area yet.",
		}, nil
	}
	if err != nil {
		return zero, err
	}

	if h.Logger != nil {
		h.Logger.Info("price suggestion generated",
			"listing_id", q.ListingID, "percent_diff", suggestion.PercentDiff, "significant", suggestion.Significant)
	}
	return dto.MapPriceSuggestion(q.ListingID, dto.MapMoney(listing.BasePrice), suggestion), nil
}

var _ queries.Handler[PriceSuggestionQuery, dto.PriceSuggestion] = (*PriceSuggestionHandler)(nil)
