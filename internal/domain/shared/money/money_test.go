package money

import (
	"errors"
	"testing"
)

func TestNewValidatesCurrency(t *testing.T) {
	if _, err := New(100, "usd"); err != nil {
		t.Fatalf("lowercase code should be accepted: %v", err)
	}
	if _, err := New(100, "US"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
	m := Must(100, "usd")
	if m.Currency != "USD" {
		t.Fatalf("currency not normalized: %q", m.Currency)
	}
}

func TestAddCurrencyMismatch(t *testing.T) {
	if _, err := Must(10, "USD").Add(Must(5, "EUR")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestScaleRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		factor float64
		want   int64
	}{
		{"identity", 100, 1.0, 100},
		{"weekend multiplier", 100, 1.2, 120},
		{"round up at half", 100, 1.245, 125},
		{"round down below half", 100, 1.244, 124},
		{"exactly half rounds away", 5, 1.5, 8},
		{"seasonal discount", 200, 0.85, 170},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Must(tt.amount, "USD").Scale(tt.factor)
			if got.Amount != tt.want {
				t.Fatalf("Scale(%v) = %d, want %d", tt.factor, got.Amount, tt.want)
			}
		})
	}
}

func TestPercentTruncatesTowardZero(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		pct    int
		want   int64
	}{
		{"half of even", 200, 50, 100},
		{"half of odd truncates", 335, 50, 167},
		{"zero percent", 335, 0, 0},
		{"negative clamps to zero", 335, -10, 0},
		{"over hundred clamps", 335, 150, 335},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Must(tt.amount, "USD").Percent(tt.pct)
			if got.Amount != tt.want {
				t.Fatalf("Percent(%d) = %d, want %d", tt.pct, got.Amount, tt.want)
			}
		})
	}
}
