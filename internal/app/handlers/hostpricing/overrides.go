package hostpricing

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

const (
	applyOverridesKey = "host.pricing.overrides.apply"
	clearOverridesKey = "host.pricing.overrides.clear"
)

// ApplyOverridesCommand sets the same override on every date of the range.
// The write is one atomic batch: a failure partway through never leaves the
// range half old, half new.
type ApplyOverridesCommand struct {
	HostID      string
	ListingID   string
	StartDate   time.Time
	EndDate     time.Time // inclusive
	Price       *int64
	Currency    string
	MinimumStay *int
	Available   bool
}

func (c ApplyOverridesCommand) Key() string { return applyOverridesKey }

type ApplyOverridesResult struct {
	ListingID string `json:"listing_id"`
	Dates     int    `json:"dates"`
}

type ApplyOverridesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ApplyOverridesHandler) Handle(ctx context.Context, cmd ApplyOverridesCommand) (*ApplyOverridesResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.HostID(cmd.HostID)) {
		return nil, ErrListingNotOwned
	}

	// End date is inclusive on the wire; the repository range is half-open.
	dr, err := domainrange.New(cmd.StartDate, domainrange.Day(cmd.EndDate).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var price *money.Money
	if cmd.Price != nil {
		currency := cmd.Currency
		if currency == "" {
			currency = listing.BasePrice.Currency
		}
		p, err := money.New(*cmd.Price, currency)
		if err != nil {
			return nil, err
		}
		price = &p
	}

	overrides := make([]domainpricing.DateOverride, 0, dr.Nights())
	for _, date := range dr.Days() {
		o := domainpricing.DateOverride{
			Date:      date,
			Price:     price,
			Available: cmd.Available,
		}
		if cmd.MinimumStay != nil {
			stay := *cmd.MinimumStay
			o.MinimumStay = &stay
		}
		if err := o.Validate(); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}

	if err := unit.Overrides().ReplaceRange(ctx, listing.ID, dr, overrides); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &ApplyOverridesResult{ListingID: string(listing.ID), Dates: len(overrides)}, nil
}

// ClearOverridesCommand removes every override in the range, restoring
// computed defaults for those dates.
type ClearOverridesCommand struct {
	HostID    string
	ListingID string
	StartDate time.Time
	EndDate   time.Time // inclusive
}

func (c ClearOverridesCommand) Key() string { return clearOverridesKey }

type ClearOverridesResult struct {
	ListingID string `json:"listing_id"`
}

type ClearOverridesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ClearOverridesHandler) Handle(ctx context.Context, cmd ClearOverridesCommand) (*ClearOverridesResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.HostID(cmd.HostID)) {
		return nil, ErrListingNotOwned
	}

	dr, err := domainrange.New(cmd.StartDate, domainrange.Day(cmd.EndDate).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	if err := unit.Overrides().ClearRange(ctx, listing.ID, dr); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &ClearOverridesResult{ListingID: string(listing.ID)}, nil
}

var _ commands.Handler[ApplyOverridesCommand, *ApplyOverridesResult] = (*ApplyOverridesHandler)(nil)
var _ commands.Handler[ClearOverridesCommand, *ClearOverridesResult] = (*ClearOverridesHandler)(nil)
