package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"staybook/internal/app/outbox"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

type fixture struct {
	factory  memory.Factory
	listings *memory.ListingRepository
	box      *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		listings: memory.NewListingRepository(),
		box:      memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		ListingsRepo:     f.listings,
		ReservationsRepo: memory.NewReservationRepository(),
		OverridesRepo:    memory.NewOverrideRepository(),
		SeasonsRepo:      memory.NewSeasonRepository(),
	}

	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:                 "lst-1",
		Host:               "host-1",
		Title:              "Harbor flat",
		City:               "Porto",
		BasePrice:          money.Must(100, "USD"),
		WeekendMultiplier:  1.2,
		DefaultMinimumStay: 2,
		CleaningFee:        money.Must(25, "USD"),
		ServiceFee:         money.Must(10, "USD"),
		CancellationPolicy: "moderate",
		Now:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	listing.Activate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	listing.ClearEvents()
	if err := f.listings.Save(context.Background(), listing); err != nil {
		t.Fatal(err)
	}
	return f
}

func (f fixture) handler() *RequestBookingHandler {
	return &RequestBookingHandler{
		UoWFactory: f.factory,
		Outbox:     f.box,
		Encoder:    outbox.JSONEventEncoder{},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRequestBookingSuccess(t *testing.T) {
	f := newFixture(t)
	h := f.handler()

	result, err := h.Handle(context.Background(), RequestBookingCommand{
		CommandID: "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-9",
		CheckIn:   date(2024, 3, 11), // Mon
		CheckOut:  date(2024, 3, 14), // 3 weekday nights
		Guests:    2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.ReservationID != "res-1" {
		t.Fatalf("reservation id = %q", result.ReservationID)
	}

	stored, err := f.factory.ReservationsRepo.ByID(context.Background(), "res-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domainbooking.StatusPending {
		t.Fatalf("status = %s, want PENDING", stored.Status)
	}
	if stored.Price.Total.Amount != 335 { // 3*100 + 25 + 10
		t.Fatalf("total = %d, want 335", stored.Price.Total.Amount)
	}
	if stored.Policy != domainbooking.PolicyModerate {
		t.Fatalf("policy = %s, want moderate", stored.Policy)
	}

	records := f.box.Pending()
	if len(records) != 1 {
		t.Fatalf("outbox records = %d, want 1", len(records))
	}
	if records[0].Name != "booking.reservation_requested" {
		t.Fatalf("event name = %q", records[0].Name)
	}
}

func TestRequestBookingBelowMinimumStay(t *testing.T) {
	f := newFixture(t)
	h := f.handler()

	_, err := h.Handle(context.Background(), RequestBookingCommand{
		CommandID: "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-9",
		CheckIn:   date(2024, 3, 11),
		CheckOut:  date(2024, 3, 12), // 1 night, min stay is 2
		Guests:    2,
	})
	if !errors.Is(err, domainbooking.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(f.box.Pending()) != 0 {
		t.Fatal("failed booking must not emit events")
	}
}

func TestRequestBookingOverlapConflict(t *testing.T) {
	f := newFixture(t)
	h := f.handler()
	ctx := context.Background()

	if _, err := h.Handle(ctx, RequestBookingCommand{
		CommandID: "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-9",
		CheckIn:   date(2024, 3, 11),
		CheckOut:  date(2024, 3, 14),
		Guests:    2,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := h.Handle(ctx, RequestBookingCommand{
		CommandID: "res-2",
		ListingID: "lst-1",
		GuestID:   "guest-8",
		CheckIn:   date(2024, 3, 13),
		CheckOut:  date(2024, 3, 15),
		Guests:    1,
	})
	if !errors.Is(err, domainbooking.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for overlapping stay, got %v", err)
	}

	// Back-to-back with the first stay books fine.
	if _, err := h.Handle(ctx, RequestBookingCommand{
		CommandID: "res-3",
		ListingID: "lst-1",
		GuestID:   "guest-7",
		CheckIn:   date(2024, 3, 14),
		CheckOut:  date(2024, 3, 16),
		Guests:    1,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestRequestBookingUnknownListing(t *testing.T) {
	f := newFixture(t)
	h := f.handler()

	_, err := h.Handle(context.Background(), RequestBookingCommand{
		CommandID: "res-1",
		ListingID: "missing",
		GuestID:   "guest-9",
		CheckIn:   date(2024, 3, 11),
		CheckOut:  date(2024, 3, 14),
		Guests:    2,
	})
	if !errors.Is(err, domainlistings.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestQuoteStayPricesBlockedRange(t *testing.T) {
	f := newFixture(t)
	q := &QuoteStayHandler{UoWFactory: f.factory}

	// Block one night of the stay.
	dr, err := domainrange.New(date(2024, 3, 11), date(2024, 3, 14))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.factory.OverridesRepo.ReplaceRange(context.Background(), "lst-1", dr, []domainpricing.DateOverride{
		{Date: date(2024, 3, 12), Available: false},
	}); err != nil {
		t.Fatal(err)
	}

	quote, err := q.Handle(context.Background(), QuoteStayQuery{
		ListingID: "lst-1",
		CheckIn:   date(2024, 3, 11),
		CheckOut:  date(2024, 3, 14),
	})
	if err != nil {
		t.Fatal(err)
	}
	if quote.Available {
		t.Fatal("blocked range reported available")
	}
	if quote.Reason != string(domainbooking.ReasonBlocked) {
		t.Fatalf("reason = %q, want BLOCKED", quote.Reason)
	}
	if quote.Breakdown.Total.Amount != 335 {
		t.Fatalf("blocked range must still price: total = %d, want 335", quote.Breakdown.Total.Amount)
	}
}
