package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface. All
// repository calls made through one Unit share the same session, which is
// what makes the booking overlap re-check and the batch override write
// transactional.
type Factory struct {
	DB *mongo.Database

	ListingsRepo     domainlistings.Repository
	ReservationsRepo domainbooking.Repository
	OverridesRepo    domainpricing.OverrideRepository
	SeasonsRepo      domainpricing.SeasonRepository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:      session,
		listings:     f.ListingsRepo,
		reservations: f.ReservationsRepo,
		overrides:    f.OverridesRepo,
		seasons:      f.SeasonsRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

	listings     domainlistings.Repository
	reservations domainbooking.Repository
	overrides    domainpricing.OverrideRepository
	seasons      domainpricing.SeasonRepository
}

func (u *Unit) Listings() domainlistings.Repository         { return u.listings }
func (u *Unit) Reservations() domainbooking.Repository      { return u.reservations }
func (u *Unit) Overrides() domainpricing.OverrideRepository { return u.overrides }
func (u *Unit) Seasons() domainpricing.SeasonRepository     { return u.seasons }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext makes the Mongo session visible to downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
