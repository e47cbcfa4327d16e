package pricing

import (
	"errors"
	"testing"

	"staybook/internal/domain/shared/money"
)

func usd(amounts ...int64) []money.Money {
	out := make([]money.Money, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, money.Must(a, "USD"))
	}
	return out
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name            string
		current         int64
		comparables     []money.Money
		wantAverage     int64
		wantPercentDiff int
		wantSignificant bool
	}{
		{
			name:            "priced above the area",
			current:         150,
			comparables:     usd(100, 110, 90),
			wantAverage:     100,
			wantPercentDiff: 50,
			wantSignificant: true,
		},
		{
			name:            "priced below the area",
			current:         80,
			comparables:     usd(100, 100),
			wantAverage:     100,
			wantPercentDiff: -20,
			wantSignificant: true,
		},
		{
			name:            "small gap is noise",
			current:         105,
			comparables:     usd(100, 100, 100),
			wantAverage:     100,
			wantPercentDiff: 5,
			wantSignificant: false,
		},
		{
			name:            "exactly at threshold",
			current:         110,
			comparables:     usd(100),
			wantAverage:     100,
			wantPercentDiff: 10,
			wantSignificant: true,
		},
		{
			name:            "negative threshold boundary",
			current:         90,
			comparables:     usd(100),
			wantAverage:     100,
			wantPercentDiff: -10,
			wantSignificant: true,
		},
		{
			name:            "just inside the band",
			current:         109,
			comparables:     usd(100),
			wantAverage:     100,
			wantPercentDiff: 9,
			wantSignificant: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suggest(money.Must(tt.current, "USD"), tt.comparables)
			if err != nil {
				t.Fatal(err)
			}
			if got.AverageAreaPrice.Amount != tt.wantAverage {
				t.Fatalf("average = %d, want %d", got.AverageAreaPrice.Amount, tt.wantAverage)
			}
			if got.SimilarListingCount != len(tt.comparables) {
				t.Fatalf("count = %d, want %d", got.SimilarListingCount, len(tt.comparables))
			}
			if got.PercentDiff != tt.wantPercentDiff {
				t.Fatalf("percent diff = %d, want %d", got.PercentDiff, tt.wantPercentDiff)
			}
			if got.Significant != tt.wantSignificant {
				t.Fatalf("significant = %v, want %v", got.Significant, tt.wantSignificant)
			}
		})
	}
}

func TestSuggestNoComparables(t *testing.T) {
	if _, err := Suggest(money.Must(150, "USD"), nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSuggestCurrencyMismatch(t *testing.T) {
	if _, err := Suggest(money.Must(150, "USD"), []money.Money{money.Must(100, "EUR")}); !errors.Is(err, money.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}
