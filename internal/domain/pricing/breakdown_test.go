package pricing

import (
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func mustRange(t *testing.T, checkIn, checkOut string) daterange.DateRange {
	t.Helper()
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		t.Fatal(err)
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		t.Fatal(err)
	}
	dr, err := daterange.New(in, out)
	if err != nil {
		t.Fatal(err)
	}
	return dr
}

func TestQuoteStayWeekdayStay(t *testing.T) {
	listing := testListing(t)
	dr := mustRange(t, "2024-01-01", "2024-01-04") // Mon, Tue, Wed nights

	b, err := QuoteStay(listing, OverrideSet{}, NewSeasonalIndex(nil), dr)
	if err != nil {
		t.Fatal(err)
	}
	if b.Nights != 3 {
		t.Fatalf("nights = %d, want 3", b.Nights)
	}
	if b.Accommodation.Amount != 300 {
		t.Fatalf("accommodation = %d, want 300", b.Accommodation.Amount)
	}
	if b.CleaningFee.Amount != 25 || b.ServiceFee.Amount != 10 {
		t.Fatalf("fees = %d/%d, want 25/10", b.CleaningFee.Amount, b.ServiceFee.Amount)
	}
	if b.Total.Amount != 335 {
		t.Fatalf("total = %d, want 335", b.Total.Amount)
	}
}

func TestQuoteStayWeekendNights(t *testing.T) {
	listing := testListing(t)
	dr := mustRange(t, "2024-01-05", "2024-01-07") // Fri and Sat nights

	b, err := QuoteStay(listing, OverrideSet{}, NewSeasonalIndex(nil), dr)
	if err != nil {
		t.Fatal(err)
	}
	if b.Nights != 2 {
		t.Fatalf("nights = %d, want 2", b.Nights)
	}
	for i, n := range b.Nightly {
		if n.Amount != 120 {
			t.Fatalf("night %d = %d, want 120", i, n.Amount)
		}
	}
	if b.Accommodation.Amount != 240 {
		t.Fatalf("accommodation = %d, want 240", b.Accommodation.Amount)
	}
	if b.Total.Amount != 275 {
		t.Fatalf("total = %d, want 275", b.Total.Amount)
	}
}

func TestQuoteStayMixedOverrideAndSeason(t *testing.T) {
	listing := testListing(t)
	price := money.Must(80, "USD")
	overrides := mustOverrides(t, DateOverride{Date: date(2024, 7, 5), Price: &price, Available: true})
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "summer", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})
	dr := mustRange(t, "2024-07-04", "2024-07-07") // Thu, Fri (override), Sat nights

	b, err := QuoteStay(listing, overrides, idx, dr)
	if err != nil {
		t.Fatal(err)
	}
	// Thu: 100*1.5 = 150; Fri: override 80; Sat: 100*1.2*1.5 = 180.
	want := []int64{150, 80, 180}
	for i, n := range b.Nightly {
		if n.Amount != want[i] {
			t.Fatalf("night %d = %d, want %d", i, n.Amount, want[i])
		}
	}
	if b.Accommodation.Amount != 410 {
		t.Fatalf("accommodation = %d, want 410", b.Accommodation.Amount)
	}
	if b.Total.Amount != 445 {
		t.Fatalf("total = %d, want 445", b.Total.Amount)
	}
}

func TestQuoteStayDoesNotEnforceAvailability(t *testing.T) {
	listing := testListing(t)
	overrides := mustOverrides(t, DateOverride{Date: date(2024, 1, 2), Available: false})
	dr := mustRange(t, "2024-01-01", "2024-01-04")

	b, err := QuoteStay(listing, overrides, NewSeasonalIndex(nil), dr)
	if err != nil {
		t.Fatal(err)
	}
	if b.Total.Amount != 335 {
		t.Fatalf("blocked dates must still price: total = %d, want 335", b.Total.Amount)
	}
}

func TestQuoteStayInvalidRange(t *testing.T) {
	listing := testListing(t)
	dr := daterange.DateRange{CheckIn: date(2024, 1, 4), CheckOut: date(2024, 1, 1)}
	if _, err := QuoteStay(listing, OverrideSet{}, NewSeasonalIndex(nil), dr); !errors.Is(err, daterange.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestBreakdownCopyDoesNotAlias(t *testing.T) {
	listing := testListing(t)
	b, err := QuoteStay(listing, OverrideSet{}, NewSeasonalIndex(nil), mustRange(t, "2024-01-01", "2024-01-04"))
	if err != nil {
		t.Fatal(err)
	}
	clone := b.Copy()
	clone.Nightly[0] = money.Must(1, "USD")
	if b.Nightly[0].Amount != 100 {
		t.Fatal("Copy shares the nightly slice")
	}
}
