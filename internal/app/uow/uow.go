package uow

import (
	"context"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// booking-creation re-check and the batch override write rely on every
// repository call inside one unit sharing the same transaction scope.
type UnitOfWork interface {
	Listings() domainlistings.Repository
	Reservations() domainbooking.Repository
	Overrides() domainpricing.OverrideRepository
	Seasons() domainpricing.SeasonRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
