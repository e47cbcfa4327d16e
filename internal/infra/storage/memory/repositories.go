package memory

import (
	"context"
	"errors"
	"sync"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

// ErrDuplicateReservation is returned when a reservation id is created twice.
var ErrDuplicateReservation = errors.New("memory: reservation already exists")

// ListingRepository is an in-memory implementation for demo and test use.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	return listing, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[listing.ID] = listing
	return nil
}

func (r *ListingRepository) ComparableRates(ctx context.Context, city string, exclude domainlistings.ListingID) ([]money.Money, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rates []money.Money
	for _, l := range r.items {
		if l.ID == exclude || l.State != domainlistings.ListingActive {
			continue
		}
		if city != "" && l.City != city {
			continue
		}
		rates = append(rates, l.BasePrice)
	}
	return rates, nil
}

// ReservationRepository keeps reservations under one mutex. The mutex is the
// transactional scope here: Create re-checks overlap against committed
// reservations while holding it, so two racing writers cannot both succeed.
type ReservationRepository struct {
	mu    sync.Mutex
	items map[domainbooking.ReservationID]*domainbooking.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[domainbooking.ReservationID]*domainbooking.Reservation)}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainbooking.ReservationID) (*domainbooking.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrReservationNotFound
	}
	return res, nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domainbooking.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[reservation.ID]; exists {
		return ErrDuplicateReservation
	}
	committed := r.activeByListingLocked(reservation.ListingID)
	if domainbooking.HasOverlap(committed, reservation.Range) {
		return domainbooking.ErrConflict
	}
	r.items[reservation.ID] = reservation
	return nil
}

func (r *ReservationRepository) Save(ctx context.Context, reservation *domainbooking.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[reservation.ID]; !exists {
		return domainbooking.ErrReservationNotFound
	}
	r.items[reservation.ID] = reservation
	return nil
}

func (r *ReservationRepository) ActiveByListing(ctx context.Context, id domainlistings.ListingID) ([]*domainbooking.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeByListingLocked(id), nil
}

func (r *ReservationRepository) activeByListingLocked(id domainlistings.ListingID) []*domainbooking.Reservation {
	var out []*domainbooking.Reservation
	for _, res := range r.items {
		if res.ListingID == id && res.Blocks() {
			out = append(out, res)
		}
	}
	return out
}
