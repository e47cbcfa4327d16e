package pricing

import (
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testListing(t *testing.T) *listings.Listing {
	t.Helper()
	l, err := listings.New(listings.CreateParams{
		ID:                 "lst-1",
		Host:               "host-1",
		Title:              "Seaside loft",
		City:               "Lisbon",
		BasePrice:          money.Must(100, "USD"),
		WeekendMultiplier:  1.2,
		DefaultMinimumStay: 1,
		CleaningFee:        money.Must(25, "USD"),
		ServiceFee:         money.Must(10, "USD"),
		CancellationPolicy: "moderate",
		Now:                date(2023, 12, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func mustOverrides(t *testing.T, overrides ...DateOverride) OverrideSet {
	t.Helper()
	set, err := NewOverrideSet(overrides)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func mustWindow(t *testing.T, id string, start, end time.Time, multiplier float64, seq int64) SeasonalWindow {
	t.Helper()
	w, err := NewSeasonalWindow(id, "window "+id, start, end, multiplier, seq, date(2023, 12, 1))
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestResolveNightlyWeekdayAndWeekend(t *testing.T) {
	listing := testListing(t)
	none := OverrideSet{}
	idx := NewSeasonalIndex(nil)

	// 2024-01-01 is a Monday, 2024-01-05 a Friday, 2024-01-06 a Saturday.
	tests := []struct {
		name string
		day  time.Time
		want int64
	}{
		{"monday base rate", date(2024, 1, 1), 100},
		{"thursday base rate", date(2024, 1, 4), 100},
		{"friday weekend rate", date(2024, 1, 5), 120},
		{"saturday weekend rate", date(2024, 1, 6), 120},
		{"sunday back to base", date(2024, 1, 7), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveNightly(listing, none, idx, tt.day)
			if err != nil {
				t.Fatal(err)
			}
			if got.Amount != tt.want {
				t.Fatalf("price = %d, want %d", got.Amount, tt.want)
			}
		})
	}
}

func TestResolveNightlySeasonalMultiplier(t *testing.T) {
	listing := testListing(t)
	none := OverrideSet{}
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "summer", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})

	// Monday inside the window.
	got, err := ResolveNightly(listing, none, idx, date(2024, 7, 8))
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 150 {
		t.Fatalf("seasonal weekday = %d, want 150", got.Amount)
	}

	// Friday inside the window stacks both multipliers: 100 * 1.2 * 1.5.
	got, err = ResolveNightly(listing, none, idx, date(2024, 7, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 180 {
		t.Fatalf("seasonal weekend = %d, want 180", got.Amount)
	}

	// Window bounds are inclusive.
	got, _ = ResolveNightly(listing, none, idx, date(2024, 7, 31))
	if got.Amount != 150 {
		t.Fatalf("inclusive end = %d, want 150", got.Amount)
	}
	got, _ = ResolveNightly(listing, none, idx, date(2024, 8, 1))
	if got.Amount != 100 {
		t.Fatalf("day after window = %d, want 100", got.Amount)
	}
}

func TestResolveNightlyNewestWindowWins(t *testing.T) {
	listing := testListing(t)
	none := OverrideSet{}
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "high", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
		mustWindow(t, "promo", date(2024, 7, 10), date(2024, 7, 20), 0.9, 2),
	})

	got, err := ResolveNightly(listing, none, idx, date(2024, 7, 15))
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 90 {
		t.Fatalf("overlap price = %d, want 90 (newest window)", got.Amount)
	}

	// Order of the input slice must not matter, only the sequence.
	reversed := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "promo", date(2024, 7, 10), date(2024, 7, 20), 0.9, 2),
		mustWindow(t, "high", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})
	got, _ = ResolveNightly(listing, none, reversed, date(2024, 7, 15))
	if got.Amount != 90 {
		t.Fatalf("overlap price = %d, want 90 regardless of slice order", got.Amount)
	}

	// Outside the newer window the older one still applies.
	got, _ = ResolveNightly(listing, none, idx, date(2024, 7, 22))
	if got.Amount != 150 {
		t.Fatalf("price = %d, want 150", got.Amount)
	}
}

func TestResolveNightlyOverrideWinsVerbatim(t *testing.T) {
	listing := testListing(t)
	price := money.Must(77, "USD")
	// Override on a Friday inside a seasonal window: neither multiplier applies.
	overrides := mustOverrides(t, DateOverride{Date: date(2024, 7, 5), Price: &price, Available: true})
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "summer", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})

	got, err := ResolveNightly(listing, overrides, idx, date(2024, 7, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount != 77 {
		t.Fatalf("override price = %d, want 77 verbatim", got.Amount)
	}
}

func TestResolveNightlyNonPositiveConfiguration(t *testing.T) {
	listing := testListing(t)
	none := OverrideSet{}
	// A near-zero multiplier rounds the nightly price to zero.
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "broken", date(2024, 7, 1), date(2024, 7, 31), 0.001, 1),
	})

	if _, err := ResolveNightly(listing, none, idx, date(2024, 7, 8)); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestAvailableAndMinimumStay(t *testing.T) {
	listing := testListing(t)
	minStay := 3
	overrides := mustOverrides(t,
		DateOverride{Date: date(2024, 2, 10), Available: false},
		DateOverride{Date: date(2024, 2, 11), Available: true, MinimumStay: &minStay},
	)

	if Available(overrides, date(2024, 2, 10)) {
		t.Fatal("blocked date reported available")
	}
	if !Available(overrides, date(2024, 2, 11)) {
		t.Fatal("open override reported unavailable")
	}
	if !Available(overrides, date(2024, 2, 12)) {
		t.Fatal("date without override should default to available")
	}

	if got := MinimumStay(listing, overrides, date(2024, 2, 11)); got != 3 {
		t.Fatalf("override min stay = %d, want 3", got)
	}
	if got := MinimumStay(listing, overrides, date(2024, 2, 12)); got != 1 {
		t.Fatalf("default min stay = %d, want 1", got)
	}
}
