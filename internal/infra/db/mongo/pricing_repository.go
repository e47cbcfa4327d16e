package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

// OverrideRepository stores one document per (listing, date). ReplaceRange is
// a delete-then-insert executed in the caller's session transaction, so the
// batch commits as a unit.
type OverrideRepository struct {
	col *mongo.Collection
}

func NewOverrideRepository(db *mongo.Database) *OverrideRepository {
	col := db.Collection("date_overrides")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &OverrideRepository{col: col}
}

func (r *OverrideRepository) ForRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange) (domainpricing.OverrideSet, error) {
	filter := bson.M{
		"listing_id": string(id),
		"date":       bson.M{"$gte": dr.CheckIn.UnixMilli(), "$lt": dr.CheckOut.UnixMilli()},
	}
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return domainpricing.OverrideSet{}, err
	}
	defer cursor.Close(ctx)

	var overrides []domainpricing.DateOverride
	for cursor.Next(ctx) {
		var doc overrideDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainpricing.OverrideSet{}, err
		}
		overrides = append(overrides, doc.toOverride())
	}
	if err := cursor.Err(); err != nil {
		return domainpricing.OverrideSet{}, err
	}
	return domainpricing.NewOverrideSet(overrides)
}

func (r *OverrideRepository) ReplaceRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange, overrides []domainpricing.DateOverride) error {
	filter := bson.M{
		"listing_id": string(id),
		"date":       bson.M{"$gte": dr.CheckIn.UnixMilli(), "$lt": dr.CheckOut.UnixMilli()},
	}
	if _, err := r.col.DeleteMany(ctx, filter); err != nil {
		return err
	}
	if len(overrides) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(overrides))
	for _, o := range overrides {
		docs = append(docs, newOverrideDocument(id, o))
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}

func (r *OverrideRepository) ClearRange(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange) error {
	return r.ReplaceRange(ctx, id, dr, nil)
}

type overrideDocument struct {
	ID          string `bson:"_id"`
	ListingID   string `bson:"listing_id"`
	Date        int64  `bson:"date"`
	Price       *int64 `bson:"price,omitempty"`
	Currency    string `bson:"currency,omitempty"`
	MinimumStay *int   `bson:"minimum_stay,omitempty"`
	Available   bool   `bson:"available"`
}

func newOverrideDocument(id domainlistings.ListingID, o domainpricing.DateOverride) overrideDocument {
	day := domainrange.Day(o.Date)
	doc := overrideDocument{
		ID:          string(id) + ":" + day.Format("2006-01-02"),
		ListingID:   string(id),
		Date:        day.UnixMilli(),
		MinimumStay: o.MinimumStay,
		Available:   o.Available,
	}
	if o.Price != nil {
		doc.Price = &o.Price.Amount
		doc.Currency = o.Price.Currency
	}
	return doc
}

func (d overrideDocument) toOverride() domainpricing.DateOverride {
	o := domainpricing.DateOverride{
		Date:        time.UnixMilli(d.Date).UTC(),
		MinimumStay: d.MinimumStay,
		Available:   d.Available,
	}
	if d.Price != nil {
		price := money.Money{Amount: *d.Price, Currency: d.Currency}
		o.Price = &price
	}
	return o
}

// SeasonRepository stores seasonal windows, one document per window, plus a
// per-listing counter document that hands out creation sequence numbers.
type SeasonRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewSeasonRepository(db *mongo.Database) *SeasonRepository {
	col := db.Collection("seasonal_windows")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "sequence", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &SeasonRepository{col: col, counters: db.Collection("seasonal_counters")}
}

func (r *SeasonRepository) ForListing(ctx context.Context, id domainlistings.ListingID) (domainpricing.SeasonalIndex, error) {
	cursor, err := r.col.Find(ctx, bson.M{"listing_id": string(id)}, options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}}))
	if err != nil {
		return domainpricing.SeasonalIndex{}, err
	}
	defer cursor.Close(ctx)

	var windows []domainpricing.SeasonalWindow
	for cursor.Next(ctx) {
		var doc seasonDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainpricing.SeasonalIndex{}, err
		}
		windows = append(windows, doc.toWindow())
	}
	if err := cursor.Err(); err != nil {
		return domainpricing.SeasonalIndex{}, err
	}
	return domainpricing.NewSeasonalIndex(windows), nil
}

func (r *SeasonRepository) Save(ctx context.Context, id domainlistings.ListingID, window domainpricing.SeasonalWindow) error {
	doc := newSeasonDocument(id, window)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *SeasonRepository) Delete(ctx context.Context, id domainlistings.ListingID, windowID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": windowID, "listing_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainpricing.ErrSeasonNotFound
	}
	return nil
}

func (r *SeasonRepository) NextSequence(ctx context.Context, id domainlistings.ListingID) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": string(id)},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}
	return doc.Value, nil
}

type seasonDocument struct {
	ID         string  `bson:"_id"`
	ListingID  string  `bson:"listing_id"`
	Name       string  `bson:"name"`
	Start      int64   `bson:"start"`
	End        int64   `bson:"end"`
	Multiplier float64 `bson:"multiplier"`
	Sequence   int64   `bson:"sequence"`
	CreatedAt  int64   `bson:"created_at"`
}

func newSeasonDocument(id domainlistings.ListingID, w domainpricing.SeasonalWindow) seasonDocument {
	return seasonDocument{
		ID:         w.ID,
		ListingID:  string(id),
		Name:       w.Name,
		Start:      w.Start.UnixMilli(),
		End:        w.End.UnixMilli(),
		Multiplier: w.Multiplier,
		Sequence:   w.Sequence,
		CreatedAt:  w.CreatedAt.UnixMilli(),
	}
}

func (d seasonDocument) toWindow() domainpricing.SeasonalWindow {
	return domainpricing.SeasonalWindow{
		ID:         d.ID,
		Name:       d.Name,
		Start:      time.UnixMilli(d.Start).UTC(),
		End:        time.UnixMilli(d.End).UTC(),
		Multiplier: d.Multiplier,
		Sequence:   d.Sequence,
		CreatedAt:  time.UnixMilli(d.CreatedAt).UTC(),
	}
}
