package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrListingNotFound      = errors.New("listings: not found")
	ErrTitleRequired        = errors.New("listings: title is required")
	ErrBasePriceRequired    = errors.New("listings: base price must be positive")
	ErrWeekendMultiplier    = errors.New("listings: weekend multiplier must be >= 1.0")
	ErrMinimumStayRequired  = errors.New("listings: default minimum stay must be at least 1 night")
	ErrNegativeFee          = errors.New("listings: fees cannot be negative")
	ErrCancellationPolicyID = errors.New("listings: cancellation policy is required")
)

type ListingID string
type HostID string

type ListingState string

const (
	ListingDraft     ListingState = "DRAFT"
	ListingActive    ListingState = "ACTIVE"
	ListingSuspended ListingState = "SUSPENDED"
)

// Listing carries the pricing configuration a host controls. Presentation
// concerns (photos, amenities, descriptions) live outside this core.
type Listing struct {
	ID                 ListingID
	Host               HostID
	Title              string
	City               string
	State              ListingState
	BasePrice          money.Money
	WeekendMultiplier  float64
	DefaultMinimumStay int
	CleaningFee        money.Money
	ServiceFee         money.Money
	CancellationPolicy string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	events.EventRecorder
}

// Repository is implemented by the persistence layer.
type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	// ComparableRates returns base nightly rates of other active listings in
	// the same city, used by the smart pricing advisor.
	ComparableRates(ctx context.Context, city string, exclude ListingID) ([]money.Money, error)
}

type CreateParams struct {
	ID                 ListingID
	Host               HostID
	Title              string
	City               string
	BasePrice          money.Money
	WeekendMultiplier  float64
	DefaultMinimumStay int
	CleaningFee        money.Money
	ServiceFee         money.Money
	CancellationPolicy string
	Now                time.Time
}

func New(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("listings: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, errors.New("listings: host is required")
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if err := validatePricing(params.BasePrice, params.WeekendMultiplier, params.DefaultMinimumStay, params.CleaningFee, params.ServiceFee); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.CancellationPolicy) == "" {
		return nil, ErrCancellationPolicyID
	}
	now := params.Now.UTC()
	l := &Listing{
		ID:                 params.ID,
		Host:               params.Host,
		Title:              strings.TrimSpace(params.Title),
		City:               strings.TrimSpace(params.City),
		State:              ListingDraft,
		BasePrice:          params.BasePrice,
		WeekendMultiplier:  params.WeekendMultiplier,
		DefaultMinimumStay: params.DefaultMinimumStay,
		CleaningFee:        params.CleaningFee,
		ServiceFee:         params.ServiceFee,
		CancellationPolicy: params.CancellationPolicy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	l.Record(newListingCreatedEvent(l.ID, l.Host, now))
	return l, nil
}

// PricingUpdate is the host-facing mutation of the listing's rate card.
type PricingUpdate struct {
	BasePrice          money.Money
	WeekendMultiplier  float64
	DefaultMinimumStay int
	CleaningFee        money.Money
	ServiceFee         money.Money
}

func (l *Listing) UpdatePricing(upd PricingUpdate, now time.Time) error {
	if err := validatePricing(upd.BasePrice, upd.WeekendMultiplier, upd.DefaultMinimumStay, upd.CleaningFee, upd.ServiceFee); err != nil {
		return err
	}
	l.BasePrice = upd.BasePrice
	l.WeekendMultiplier = upd.WeekendMultiplier
	l.DefaultMinimumStay = upd.DefaultMinimumStay
	l.CleaningFee = upd.CleaningFee
	l.ServiceFee = upd.ServiceFee
	l.UpdatedAt = now.UTC()
	l.Record(newListingPricingUpdatedEvent(l.ID, l.BasePrice, l.UpdatedAt))
	return nil
}

func (l *Listing) Activate(now time.Time) {
	if l.State == ListingActive {
		return
	}
	l.State = ListingActive
	l.UpdatedAt = now.UTC()
}

func (l *Listing) OwnedBy(host HostID) bool {
	return l.Host == host
}

func validatePricing(base money.Money, weekendMult float64, minStay int, cleaning, service money.Money) error {
	if !base.IsPositive() {
		return ErrBasePriceRequired
	}
	if weekendMult < 1.0 {
		return ErrWeekendMultiplier
	}
	if minStay < 1 {
		return ErrMinimumStayRequired
	}
	if cleaning.Amount < 0 || service.Amount < 0 {
		return ErrNegativeFee
	}
	return nil
}
