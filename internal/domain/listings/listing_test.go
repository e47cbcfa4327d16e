package listings

import (
	"errors"
	"testing"
	"time"

	"staybook/internal/domain/shared/money"
)

func validParams() CreateParams {
	return CreateParams{
		ID:                 "lst-1",
		Host:               "host-1",
		Title:              "Garden studio",
		City:               "Berlin",
		BasePrice:          money.Must(100, "USD"),
		WeekendMultiplier:  1.2,
		DefaultMinimumStay: 2,
		CleaningFee:        money.Must(25, "USD"),
		ServiceFee:         money.Must(10, "USD"),
		CancellationPolicy: "strict",
		Now:                time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{"missing title", func(p *CreateParams) { p.Title = "  " }, ErrTitleRequired},
		{"zero base price", func(p *CreateParams) { p.BasePrice = money.Zero("USD") }, ErrBasePriceRequired},
		{"negative base price", func(p *CreateParams) { p.BasePrice = money.Must(-10, "USD") }, ErrBasePriceRequired},
		{"weekend multiplier below one", func(p *CreateParams) { p.WeekendMultiplier = 0.9 }, ErrWeekendMultiplier},
		{"zero minimum stay", func(p *CreateParams) { p.DefaultMinimumStay = 0 }, ErrMinimumStayRequired},
		{"negative cleaning fee", func(p *CreateParams) { p.CleaningFee = money.Must(-1, "USD") }, ErrNegativeFee},
		{"negative service fee", func(p *CreateParams) { p.ServiceFee = money.Must(-1, "USD") }, ErrNegativeFee},
		{"missing policy", func(p *CreateParams) { p.CancellationPolicy = "" }, ErrCancellationPolicyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			if _, err := New(params); !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDefaultsToDraft(t *testing.T) {
	l, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if l.State != ListingDraft {
		t.Fatalf("state = %s, want DRAFT", l.State)
	}
	if len(l.PendingEvents()) != 1 {
		t.Fatalf("expected a created event, got %d", len(l.PendingEvents()))
	}
	l.Activate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if l.State != ListingActive {
		t.Fatalf("state = %s, want ACTIVE", l.State)
	}
}

func TestUpdatePricing(t *testing.T) {
	l, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	bad := PricingUpdate{
		BasePrice:          money.Zero("USD"),
		WeekendMultiplier:  1.0,
		DefaultMinimumStay: 1,
		CleaningFee:        money.Zero("USD"),
		ServiceFee:         money.Zero("USD"),
	}
	if err := l.UpdatePricing(bad, now); !errors.Is(err, ErrBasePriceRequired) {
		t.Fatalf("expected ErrBasePriceRequired, got %v", err)
	}
	if l.BasePrice.Amount != 100 {
		t.Fatal("failed update must not mutate the listing")
	}

	good := PricingUpdate{
		BasePrice:          money.Must(140, "USD"),
		WeekendMultiplier:  1.3,
		DefaultMinimumStay: 3,
		CleaningFee:        money.Must(30, "USD"),
		ServiceFee:         money.Must(12, "USD"),
	}
	if err := l.UpdatePricing(good, now); err != nil {
		t.Fatal(err)
	}
	if l.BasePrice.Amount != 140 || l.WeekendMultiplier != 1.3 || l.DefaultMinimumStay != 3 {
		t.Fatalf("update not applied: %+v", l)
	}
}

func TestOwnedBy(t *testing.T) {
	l, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if !l.OwnedBy("host-1") {
		t.Fatal("owner not recognized")
	}
	if l.OwnedBy("host-2") {
		t.Fatal("stranger recognized as owner")
	}
}
