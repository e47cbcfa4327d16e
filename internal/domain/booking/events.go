package booking

import (
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

const (
	EventReservationRequested = "booking.reservation_requested"
	EventReservationConfirmed = "booking.reservation_confirmed"
	EventReservationCancelled = "booking.reservation_cancelled"
	EventReservationCompleted = "booking.reservation_completed"
)

type ReservationRequested struct {
	events.BaseEvent
	ListingID listings.ListingID
	GuestID   string
	Range     daterange.DateRange
	Total     money.Money
}

func newReservationRequestedEvent(r *Reservation, at time.Time) ReservationRequested {
	return ReservationRequested{
		BaseEvent: events.BaseEvent{Name: EventReservationRequested, Aggregate: string(r.ID), Time: at},
		ListingID: r.ListingID,
		GuestID:   r.GuestID,
		Range:     r.Range,
		Total:     r.Price.Total,
	}
}

type ReservationConfirmed struct {
	events.BaseEvent
	ListingID listings.ListingID
	Range     daterange.DateRange
	Total     money.Money
}

func newReservationConfirmedEvent(r *Reservation, at time.Time) ReservationConfirmed {
	return ReservationConfirmed{
		BaseEvent: events.BaseEvent{Name: EventReservationConfirmed, Aggregate: string(r.ID), Time: at},
		ListingID: r.ListingID,
		Range:     r.Range,
		Total:     r.Price.Total,
	}
}

type ReservationCancelled struct {
	events.BaseEvent
	ListingID listings.ListingID
	Refund    money.Money
}

func newReservationCancelledEvent(r *Reservation, refund money.Money, at time.Time) ReservationCancelled {
	return ReservationCancelled{
		BaseEvent: events.BaseEvent{Name: EventReservationCancelled, Aggregate: string(r.ID), Time: at},
		ListingID: r.ListingID,
		Refund:    refund,
	}
}

type ReservationCompleted struct {
	events.BaseEvent
	ListingID listings.ListingID
}

func newReservationCompletedEvent(r *Reservation, at time.Time) ReservationCompleted {
	return ReservationCompleted{
		BaseEvent: events.BaseEvent{Name: EventReservationCompleted, Aggregate: string(r.ID), Time: at},
		ListingID: r.ListingID,
	}
}
