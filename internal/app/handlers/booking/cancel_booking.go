package booking

import (
	"context"
	"errors"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
)

const cancelBookingKey = "booking.cancel"

var ErrNotReservationOwner = errors.New("booking: reservation belongs to another guest")

type CancelBookingCommand struct {
	ReservationID string
	GuestID       string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	ReservationID string    `json:"reservation_id"`
	Refund        dto.Money `json:"refund"`
}

// CancelBookingHandler cancels a reservation and computes the refund under
// the attached policy tier. Persisting the refund decision is part of the
// same transaction as the state change.
type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	reservation, err := unit.Reservations().ByID(ctx, domainbooking.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if reservation.GuestID != cmd.GuestID {
		return nil, ErrNotReservationOwner
	}

	refund, err := reservation.Cancel(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := unit.Reservations().Save(ctx, reservation); err != nil {
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
	return &CancelBookingResult{
		ReservationID: string(reservation.ID),
		Refund:        dto.MapMoney(refund),
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
