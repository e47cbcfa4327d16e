package booking

import (
	"errors"
	"testing"

	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/money"
)

func testBreakdown(total int64) pricing.StayBreakdown {
	return pricing.StayBreakdown{
		Nights:        2,
		Nightly:       []money.Money{money.Must(total/2, "USD"), money.Must(total/2, "USD")},
		Accommodation: money.Must(total, "USD"),
		CleaningFee:   money.Zero("USD"),
		ServiceFee:    money.Zero("USD"),
		Total:         money.Must(total, "USD"),
	}
}

func newPendingReservation(t *testing.T) *Reservation {
	t.Helper()
	r, err := NewReservation(CreateParams{
		ID:        "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-9",
		Range:     mustRange(t, date(2024, 6, 10), date(2024, 6, 12)),
		Guests:    2,
		Price:     testBreakdown(200),
		Policy:    PolicyModerate,
		Now:       date(2024, 5, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewReservationValidation(t *testing.T) {
	params := CreateParams{
		ID:        "res-1",
		ListingID: "lst-1",
		GuestID:   "guest-9",
		Range:     mustRange(t, date(2024, 6, 10), date(2024, 6, 12)),
		Guests:    2,
		Price:     testBreakdown(200),
		Policy:    PolicyModerate,
		Now:       date(2024, 5, 1),
	}

	noGuest := params
	noGuest.GuestID = ""
	if _, err := NewReservation(noGuest); !errors.Is(err, ErrGuestRequired) {
		t.Fatalf("expected ErrGuestRequired, got %v", err)
	}

	badPolicy := params
	badPolicy.Policy = PolicyTier("lenient")
	if _, err := NewReservation(badPolicy); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}

	zeroGuests := params
	zeroGuests.Guests = 0
	if _, err := NewReservation(zeroGuests); err == nil {
		t.Fatal("expected error for zero guests")
	}

	r, err := NewReservation(params)
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", r.Status)
	}
	if len(r.PendingEvents()) != 1 {
		t.Fatalf("expected one recorded event, got %d", len(r.PendingEvents()))
	}
}

func TestReservationLifecycle(t *testing.T) {
	r := newPendingReservation(t)

	if err := r.Complete(date(2024, 6, 13)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pending reservation must not complete, got %v", err)
	}
	if err := r.Confirm(date(2024, 5, 2)); err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", r.Status)
	}
	if err := r.Confirm(date(2024, 5, 3)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double confirm must fail, got %v", err)
	}
	if err := r.Complete(date(2024, 6, 13)); err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", r.Status)
	}
	if _, err := r.Cancel(date(2024, 6, 14)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("completed reservation must not cancel, got %v", err)
	}
}

func TestReservationCancelComputesRefund(t *testing.T) {
	r := newPendingReservation(t)

	// Moderate policy, 7 days before check-in: full refund.
	refund, err := r.Cancel(date(2024, 6, 3))
	if err != nil {
		t.Fatal(err)
	}
	if refund.Amount != 200 {
		t.Fatalf("refund = %d, want 200", refund.Amount)
	}
	if r.Status != StatusCancelled {
		t.Fatalf("status = %s, want CANCELLED", r.Status)
	}
	if r.Refund.Amount != 200 {
		t.Fatalf("stored refund = %d, want 200", r.Refund.Amount)
	}
	if r.Blocks() {
		t.Fatal("cancelled reservation must release its dates")
	}
}

func TestReservationCancelPartialRefund(t *testing.T) {
	r := newPendingReservation(t)
	refund, err := r.Cancel(date(2024, 6, 8)) // 2 days out under moderate
	if err != nil {
		t.Fatal(err)
	}
	if refund.Amount != 100 {
		t.Fatalf("refund = %d, want 100", refund.Amount)
	}
}

func TestHasOverlap(t *testing.T) {
	existing := []*Reservation{
		testReservation(t, "res-1", date(2024, 5, 12), date(2024, 5, 15), StatusConfirmed),
		testReservation(t, "res-2", date(2024, 5, 20), date(2024, 5, 22), StatusCancelled),
	}
	if !HasOverlap(existing, mustRange(t, date(2024, 5, 14), date(2024, 5, 16))) {
		t.Fatal("confirmed overlap not detected")
	}
	if HasOverlap(existing, mustRange(t, date(2024, 5, 20), date(2024, 5, 22))) {
		t.Fatal("cancelled reservation should not overlap")
	}
	if HasOverlap(existing, mustRange(t, date(2024, 5, 15), date(2024, 5, 17))) {
		t.Fatal("back-to-back stay flagged as overlap")
	}
}
