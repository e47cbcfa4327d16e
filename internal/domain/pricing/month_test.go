package pricing

import (
	"testing"
	"time"

	"staybook/internal/domain/shared/money"
)

func TestMonthPricingCoversWholeMonth(t *testing.T) {
	listing := testListing(t)
	days, err := MonthPricing(listing, OverrideSet{}, NewSeasonalIndex(nil), 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 29 { // 2024 is a leap year
		t.Fatalf("got %d days, want 29", len(days))
	}
	if !days[0].Date.Equal(date(2024, 2, 1)) || !days[28].Date.Equal(date(2024, 2, 29)) {
		t.Fatalf("bad bounds: %v .. %v", days[0].Date, days[28].Date)
	}
}

func TestMonthPricingAgreesWithResolver(t *testing.T) {
	listing := testListing(t)
	minStay := 2
	cheap := money.Must(60, "USD")
	overrides := mustOverrides(t,
		DateOverride{Date: date(2024, 7, 10), Price: &cheap, Available: true},
		DateOverride{Date: date(2024, 7, 11), Available: false},
		DateOverride{Date: date(2024, 7, 12), Available: true, MinimumStay: &minStay},
	)
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "summer", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})

	days, err := MonthPricing(listing, overrides, idx, 2024, time.July)
	if err != nil {
		t.Fatal(err)
	}
	for _, day := range days {
		want, err := ResolveNightly(listing, overrides, idx, day.Date)
		if err != nil {
			t.Fatal(err)
		}
		if day.Price.Amount != want.Amount {
			t.Fatalf("%v: calendar price %d disagrees with resolver %d", day.Date, day.Price.Amount, want.Amount)
		}
		if day.Available != Available(overrides, day.Date) {
			t.Fatalf("%v: availability disagrees", day.Date)
		}
		if day.MinimumStay != MinimumStay(listing, overrides, day.Date) {
			t.Fatalf("%v: minimum stay disagrees", day.Date)
		}
	}
}

func TestMonthPricingCustomFlag(t *testing.T) {
	listing := testListing(t)
	// 2024-07-08 is a Monday: computed seasonal price is 100*1.5 = 150.
	sameAsComputed := money.Must(150, "USD")
	different := money.Must(99, "USD")
	minStay := 4
	overrides := mustOverrides(t,
		DateOverride{Date: date(2024, 7, 8), Price: &sameAsComputed, Available: true},
		DateOverride{Date: date(2024, 7, 9), Price: &different, Available: true},
		DateOverride{Date: date(2024, 7, 10), Available: false},
		DateOverride{Date: date(2024, 7, 11), Available: true, MinimumStay: &minStay},
	)
	idx := NewSeasonalIndex([]SeasonalWindow{
		mustWindow(t, "summer", date(2024, 7, 1), date(2024, 7, 31), 1.5, 1),
	})

	days, err := MonthPricing(listing, overrides, idx, 2024, time.July)
	if err != nil {
		t.Fatal(err)
	}
	byDay := make(map[int]DayPricing)
	for _, d := range days {
		byDay[d.Date.Day()] = d
	}

	if byDay[8].Custom {
		t.Fatal("override equal to computed price must not be flagged custom")
	}
	if !byDay[9].Custom {
		t.Fatal("override that changes the price must be flagged custom")
	}
	if byDay[10].Custom {
		t.Fatal("availability-only override is not a custom price")
	}
	if byDay[11].Custom {
		t.Fatal("min-stay-only override is not a custom price")
	}
	if byDay[12].Custom {
		t.Fatal("date without override flagged custom")
	}
}
