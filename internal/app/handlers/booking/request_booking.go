package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

var ErrUnitOfWorkRequired = errors.New("booking: unit of work required")

type RequestBookingCommand struct {
	CommandID       string
	ListingID       string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

// Validate covers the cheap structural checks; range and availability
// validation happen inside the handler against loaded state.
func (c RequestBookingCommand) Validate() error {
	if c.ListingID == "" {
		return errors.New("booking: listing id required")
	}
	if c.GuestID == "" {
		return domainbooking.ErrGuestRequired
	}
	if c.Guests <= 0 {
		return errors.New("booking: guests count must be positive")
	}
	return nil
}

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	ReservationID string `json:"reservation_id"`
}

// RequestBookingHandler validates availability, prices the stay and persists
// the reservation. The repository re-checks overlap against committed
// reservations inside the same transaction; a concurrent winner surfaces as
// domainbooking.ErrConflict and the caller may retry after re-fetching.
type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	listingID := domainlistings.ListingID(cmd.ListingID)
	listing, err := unit.Listings().ByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	overrides, err := unit.Overrides().ForRange(ctx, listingID, dr)
	if err != nil {
		return nil, err
	}
	seasons, err := unit.Seasons().ForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	existing, err := unit.Reservations().ActiveByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	check, err := domainbooking.CheckStay(listing, overrides, existing, dr)
	if err != nil {
		return nil, err
	}
	if err := check.Err(); err != nil {
		return nil, err
	}

	breakdown, err := domainpricing.QuoteStay(listing, overrides, seasons, dr)
	if err != nil {
		return nil, err
	}

	policy, err := domainbooking.ParsePolicy(listing.CancellationPolicy)
	if err != nil {
		return nil, err
	}

	reservation, err := domainbooking.NewReservation(domainbooking.CreateParams{
		ID:        domainbooking.ReservationID(cmd.CommandID),
		ListingID: listing.ID,
		GuestID:   cmd.GuestID,
		Range:     dr,
		Guests:    cmd.Guests,
		Price:     breakdown,
		Policy:    policy,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Reservations().Create(ctx, reservation); err != nil {
		return nil, err
	}

	pending := reservation.PendingEvents()
	reservation.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &RequestBookingResult{ReservationID: string(reservation.ID)}, nil
}

// beginUnit reuses a unit of work from the transaction middleware or opens a
// managed one. The returned commit is a no-op for context-provided units,
// whose lifecycle the middleware owns.
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

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
