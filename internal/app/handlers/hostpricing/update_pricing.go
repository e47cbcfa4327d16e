package hostpricing

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

const updatePricingKey = "host.pricing.update"

var (
	ErrListingNotOwned    = errors.New("hostpricing: listing belongs to another host")
	ErrUnitOfWorkRequired = errors.New("hostpricing: unit of work required")
)

type UpdatePricingCommand struct {
	HostID             string
	ListingID          string
	BasePrice          int64
	Currency           string
	WeekendMultiplier  float64
	DefaultMinimumStay int
	CleaningFee        int64
	ServiceFee         int64
}

func (c UpdatePricingCommand) Key() string { return updatePricingKey }

type UpdatePricingResult struct {
	ListingID string `json:"listing_id"`
}

type UpdatePricingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdatePricingHandler) Handle(ctx context.Context, cmd UpdatePricingCommand) (*UpdatePricingResult, error) {
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

	currency := cmd.Currency
	if currency == "" {
		currency = listing.BasePrice.Currency
	}
	base, err := money.New(cmd.BasePrice, currency)
	if err != nil {
		return nil, err
	}
	cleaning, err := money.New(cmd.CleaningFee, currency)
	if err != nil {
		return nil, err
	}
	service, err := money.New(cmd.ServiceFee, currency)
	if err != nil {
		return nil, err
	}

	err = listing.UpdatePricing(domainlistings.PricingUpdate{
		BasePrice:          base,
		WeekendMultiplier:  cmd.WeekendMultiplier,
		DefaultMinimumStay: cmd.DefaultMinimumStay,
		CleaningFee:        cleaning,
		ServiceFee:         service,
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := unit.Listings().Save(ctx, listing); err != nil {
		return nil, err
	}

	pending := listing.PendingEvents()
	listing.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &UpdatePricingResult{ListingID: string(listing.ID)}, nil
}

// beginUnit mirrors the booking handlers: reuse the middleware-provided unit
// of work, otherwise manage one locally.
func beginUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func() error, func(), error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, func() error { return nil }, func() {}, nil
	}
	if factory == nil {
		return nil, ctx, nil, nil, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, nil, nil, err
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	committed := false
	commit := func() error {
		if err := unit.Commit(execCtx); err != nil {
			return err
		}
		committed = true
		return nil
	}
	rollback := func() {
		if !committed {
			_ = unit.Rollback(execCtx)
		}
	}
	return unit, execCtx, commit, rollback, nil
}

var _ commands.Handler[UpdatePricingCommand, *UpdatePricingResult] = (*UpdatePricingHandler)(nil)
