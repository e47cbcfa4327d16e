package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrListingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	filter := bson.M{"_id": doc.ID, "version": listing.Version}
	doc.Version = listing.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	listing.Version = doc.Version
	return nil
}

func (r *ListingRepository) ComparableRates(ctx context.Context, city string, exclude domainlistings.ListingID) ([]money.Money, error) {
	filter := bson.M{
		"_id":   bson.M{"$ne": string(exclude)},
		"state": string(domainlistings.ListingActive),
	}
	if city != "" {
		filter["city"] = city
	}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"base_price": 1, "currency": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rates []money.Money
	for cursor.Next(ctx) {
		var doc struct {
			BasePrice int64  `bson:"base_price"`
			Currency  string `bson:"currency"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rates = append(rates, money.Money{Amount: doc.BasePrice, Currency: doc.Currency})
	}
	return rates, cursor.Err()
}

type listingDocument struct {
	ID                 string  `bson:"_id"`
	Host               string  `bson:"host"`
	Title              string  `bson:"title"`
	City               string  `bson:"city"`
	State              string  `bson:"state"`
	BasePrice          int64   `bson:"base_price"`
	Currency           string  `bson:"currency"`
	WeekendMultiplier  float64 `bson:"weekend_multiplier"`
	DefaultMinimumStay int     `bson:"default_minimum_stay"`
	CleaningFee        int64   `bson:"cleaning_fee"`
	ServiceFee         int64   `bson:"service_fee"`
	CancellationPolicy string  `bson:"cancellation_policy"`
	CreatedAt          int64   `bson:"created_at"`
	UpdatedAt          int64   `bson:"updated_at"`
	Version            int64   `bson:"version"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	return listingDocument{
		ID:                 string(l.ID),
		Host:               string(l.Host),
		Title:              l.Title,
		City:               l.City,
		State:              string(l.State),
		BasePrice:          l.BasePrice.Amount,
		Currency:           l.BasePrice.Currency,
		WeekendMultiplier:  l.WeekendMultiplier,
		DefaultMinimumStay: l.DefaultMinimumStay,
		CleaningFee:        l.CleaningFee.Amount,
		ServiceFee:         l.ServiceFee.Amount,
		CancellationPolicy: l.CancellationPolicy,
		CreatedAt:          l.CreatedAt.UnixMilli(),
		UpdatedAt:          l.UpdatedAt.UnixMilli(),
		Version:            l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlistings.Listing {
	return &domainlistings.Listing{
		ID:                 domainlistings.ListingID(d.ID),
		Host:               domainlistings.HostID(d.Host),
		Title:              d.Title,
		City:               d.City,
		State:              domainlistings.ListingState(d.State),
		BasePrice:          money.Money{Amount: d.BasePrice, Currency: d.Currency},
		WeekendMultiplier:  d.WeekendMultiplier,
		DefaultMinimumStay: d.DefaultMinimumStay,
		CleaningFee:        money.Money{Amount: d.CleaningFee, Currency: d.Currency},
		ServiceFee:         money.Money{Amount: d.ServiceFee, Currency: d.Currency},
		CancellationPolicy: d.CancellationPolicy,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
}
