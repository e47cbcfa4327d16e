package booking

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
)

const confirmBookingKey = "booking.confirm"

type ConfirmBookingCommand struct {
	ReservationID string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingResult struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
}

type ConfirmBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	reservation, err := unit.Reservations().ByID(ctx, domainbooking.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	if err := reservation.Confirm(time.Now().UTC()); err != nil {
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
	return &ConfirmBookingResult{ReservationID: string(reservation.ID), Status: string(reservation.Status)}, nil
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
