package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvalidRanges(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{"equal dates", date(2024, 3, 10), date(2024, 3, 10)},
		{"checkout before checkin", date(2024, 3, 10), date(2024, 3, 8)},
		{"same date different clock times", date(2024, 3, 10).Add(8 * time.Hour), date(2024, 3, 10).Add(20 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.checkIn, tt.checkOut); !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

func TestNewTruncatesToCalendarDates(t *testing.T) {
	dr, err := New(date(2024, 3, 10).Add(15*time.Hour), date(2024, 3, 12).Add(9*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if !dr.CheckIn.Equal(date(2024, 3, 10)) || !dr.CheckOut.Equal(date(2024, 3, 12)) {
		t.Fatalf("endpoints not truncated: %v - %v", dr.CheckIn, dr.CheckOut)
	}
	if dr.Nights() != 2 {
		t.Fatalf("Nights() = %d, want 2", dr.Nights())
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	base, _ := New(date(2024, 5, 10), date(2024, 5, 15))
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"identical", date(2024, 5, 10), date(2024, 5, 15), true},
		{"contained", date(2024, 5, 11), date(2024, 5, 13), true},
		{"overlaps start", date(2024, 5, 8), date(2024, 5, 11), true},
		{"overlaps end", date(2024, 5, 14), date(2024, 5, 18), true},
		{"back to back before", date(2024, 5, 5), date(2024, 5, 10), false},
		{"back to back after", date(2024, 5, 15), date(2024, 5, 20), false},
		{"disjoint", date(2024, 5, 20), date(2024, 5, 25), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := New(tt.checkIn, tt.checkOut)
			if err != nil {
				t.Fatal(err)
			}
			if got := base.Overlaps(other); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := other.Overlaps(base); got != tt.want {
				t.Fatalf("Overlaps not symmetric: %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysEnumeratesNights(t *testing.T) {
	dr, _ := New(date(2024, 1, 1), date(2024, 1, 4))
	days := dr.Days()
	if len(days) != 3 {
		t.Fatalf("got %d nights, want 3", len(days))
	}
	for i, d := range days {
		if !d.Equal(date(2024, 1, 1+i)) {
			t.Fatalf("night %d = %v", i, d)
		}
	}
	if !dr.ContainsDate(date(2024, 1, 3)) {
		t.Fatal("last night should be contained")
	}
	if dr.ContainsDate(date(2024, 1, 4)) {
		t.Fatal("checkout day is not a night of the stay")
	}
}

func TestDaysBetweenTruncatesToMidnight(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"whole days", date(2024, 6, 1), date(2024, 6, 6), 5},
		{"same day late evening", date(2024, 6, 1).Add(23 * time.Hour), date(2024, 6, 1), 0},
		{"no midnight crossed", date(2024, 6, 1).Add(23 * time.Hour), date(2024, 6, 2).Add(-time.Minute), 0},
		{"one minute past midnight counts", date(2024, 6, 1).Add(23 * time.Hour), date(2024, 6, 2).Add(time.Minute), 1},
		{"negative when reversed", date(2024, 6, 6), date(2024, 6, 1), -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Fatalf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}
