package memory

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	ListingsRepo     *ListingRepository
	ReservationsRepo *ReservationRepository
	OverridesRepo    *OverrideRepository
	SeasonsRepo      *SeasonRepository
}

// Begin starts a lightweight transaction boundary. There is no multi-store
// isolation; the reservation repository's own mutex provides the write-time
// conflict re-check the booking flow depends on.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.ReservationsRepo == nil || f.OverridesRepo == nil || f.SeasonsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		listings:     f.ListingsRepo,
		reservations: f.ReservationsRepo,
		overrides:    f.OverridesRepo,
		seasons:      f.SeasonsRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings     *ListingRepository
	reservations *ReservationRepository
	overrides    *OverrideRepository
	seasons      *SeasonRepository
}

func (u *Unit) Listings() domainlistings.Repository         { return u.listings }
func (u *Unit) Reservations() domainbooking.Repository      { return u.reservations }
func (u *Unit) Overrides() domainpricing.OverrideRepository { return u.overrides }
func (u *Unit) Seasons() domainpricing.SeasonRepository     { return u.seasons }
func (u *Unit) Commit(ctx context.Context) error            { return nil }
func (u *Unit) Rollback(ctx context.Context) error          { return nil }

var _ uow.UoWFactory = Factory{}
