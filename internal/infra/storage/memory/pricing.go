package memory

import (
	"context"
	"sync"
	"time"

	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

// OverrideRepository keeps per-date overrides in memory. ReplaceRange and
// ClearRange run under one mutex, so a batch is observed fully applied or
// not at all.
type OverrideRepository struct {
	mu        sync.RWMutex
	byListing map[domainlistings.ListingID]map[time.Time]domainpricing.DateOverride
}

func NewOverrideRepository() *OverrideRepository {
	return &OverrideRepository{byListing: make(map[domainlistings.ListingID]map[time.Time]domainpricing.DateOverride)}
}

func (r *OverrideRepository) ForRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange) (domainpricing.OverrideSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []domainpricing.DateOverride
	for date, o := range r.byListing[id] {
		if dr.ContainsDate(date) {
			hits = append(hits, o)
		}
	}
	return domainpricing.NewOverrideSet(hits)
}

func (r *OverrideRepository) ReplaceRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange, overrides []domainpricing.DateOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dates := r.byListing[id]
	if dates == nil {
		dates = make(map[time.Time]domainpricing.DateOverride)
		r.byListing[id] = dates
	}
	for date := range dates {
		if dr.ContainsDate(date) {
			delete(dates, date)
		}
	}
	for _, o := range overrides {
		o.Date = domainrange.Day(o.Date)
		dates[o.Date] = o
	}
	return nil
}

func (r *OverrideRepository) ClearRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange) error {
	return r.ReplaceRange(ctx, id, dr, nil)
}

// SeasonRepository stores seasonal windows per listing in creation order.
type SeasonRepository struct {
	mu        sync.RWMutex
	byListing map[domainlistings.ListingID][]domainpricing.SeasonalWindow
	sequences map[domainlistings.ListingID]int64
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{
		byListing: make(map[domainlistings.ListingID][]domainpricing.SeasonalWindow),
		sequences: make(map[domainlistings.ListingID]int64),
	}
}

func (r *SeasonRepository) ForListing(ctx context.Context, id domainlistings.ListingID) (domainpricing.SeasonalIndex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domainpricing.NewSeasonalIndex(r.byListing[id]), nil
}

func (r *SeasonRepository) Save(ctx context.Context, id domainlistings.ListingID, window domainpricing.SeasonalWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	windows := r.byListing[id]
	for i, existing := range windows {
		if existing.ID == window.ID {
			windows[i] = window
			return nil
		}
	}
	r.byListing[id] = append(windows, window)
	return nil
}

func (r *SeasonRepository) Delete(ctx context.Context, id domainlistings.ListingID, windowID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	windows := r.byListing[id]
	for i, existing := range windows {
		if existing.ID == windowID {
			r.byListing[id] = append(windows[:i], windows[i+1:]...)
			return nil
		}
	}
	return domainpricing.ErrSeasonNotFound
}

func (r *SeasonRepository) NextSequence(ctx context.Context, id domainlistings.ListingID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[id]++
	return r.sequences[id], nil
}
