package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	col := db.Collection("reservations")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "range.check_in", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ReservationRepository{col: col}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainbooking.ReservationID) (*domainbooking.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrReservationNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Create inserts a reservation after re-checking overlap against committed
// reservations. The caller runs this inside a session transaction (see the
// unit of work), so a winner committed between the availability check and
// this write surfaces as ErrConflict instead of a silent double booking.
func (r *ReservationRepository) Create(ctx context.Context, reservation *domainbooking.Reservation) error {
	conflicting, err := r.overlapCount(ctx, reservation.ListingID, reservation.Range)
	if err != nil {
		return err
	}
	if conflicting > 0 {
		return domainbooking.ErrConflict
	}
	doc := newReservationDocument(reservation)
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrConflict
		}
		return err
	}
	reservation.Version = doc.Version
	return nil
}

func (r *ReservationRepository) Save(ctx context.Context, reservation *domainbooking.Reservation) error {
	doc := newReservationDocument(reservation)
	filter := bson.M{"_id": doc.ID, "version": reservation.Version}
	doc.Version = reservation.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConcurrentUpdate
	}
	reservation.Version = doc.Version
	return nil
}

func (r *ReservationRepository) ActiveByListing(ctx context.Context, id domainlistings.ListingID) ([]*domainbooking.Reservation, error) {
	filter := bson.M{
		"listing_id": string(id),
		"status":     bson.M{"$ne": string(domainbooking.StatusCancelled)},
	}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "range.check_in", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainbooking.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

// overlapCount applies the same half-open intersection predicate the domain
// uses: candidate.checkIn < existing.checkOut && existing.checkIn < candidate.checkOut.
func (r *ReservationRepository) overlapCount(ctx context.Context, id domainlistings.ListingID, dr domainrange.DateRange) (int64, error) {
	filter := bson.M{
		"listing_id":      string(id),
		"status":          bson.M{"$ne": string(domainbooking.StatusCancelled)},
		"range.check_in":  bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"range.check_out": bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	return r.col.CountDocuments(ctx, filter)
}

type reservationDocument struct {
	ID        string            `bson:"_id"`
	ListingID string            `bson:"listing_id"`
	GuestID   string            `bson:"guest_id"`
	Range     rangeDocument     `bson:"range"`
	Guests    int               `bson:"guests"`
	Price     priceDocument     `bson:"price"`
	Policy    string            `bson:"policy"`
	Status    string            `bson:"status"`
	Refund    int64             `bson:"refund"`
	Currency  string            `bson:"currency"`
	CreatedAt int64             `bson:"created_at"`
	UpdatedAt int64             `bson:"updated_at"`
	Version   int64             `bson:"version"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

type priceDocument struct {
	Nights        int     `bson:"nights"`
	Nightly       []int64 `bson:"nightly"`
	Accommodation int64   `bson:"accommodation"`
	CleaningFee   int64   `bson:"cleaning_fee"`
	ServiceFee    int64   `bson:"service_fee"`
	Total         int64   `bson:"total"`
	Currency      string  `bson:"currency"`
}

func newReservationDocument(r *domainbooking.Reservation) reservationDocument {
	nightly := make([]int64, 0, len(r.Price.Nightly))
	for _, n := range r.Price.Nightly {
		nightly = append(nightly, n.Amount)
	}
	return reservationDocument{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		GuestID:   r.GuestID,
		Range:     rangeDocument{CheckIn: r.Range.CheckIn.UnixMilli(), CheckOut: r.Range.CheckOut.UnixMilli()},
		Guests:    r.Guests,
		Price: priceDocument{
			Nights:        r.Price.Nights,
			Nightly:       nightly,
			Accommodation: r.Price.Accommodation.Amount,
			CleaningFee:   r.Price.CleaningFee.Amount,
			ServiceFee:    r.Price.ServiceFee.Amount,
			Total:         r.Price.Total.Amount,
			Currency:      r.Price.Total.Currency,
		},
		Policy:    string(r.Policy),
		Status:    string(r.Status),
		Refund:    r.Refund.Amount,
		Currency:  r.Price.Total.Currency,
		CreatedAt: r.CreatedAt.UnixMilli(),
		UpdatedAt: r.UpdatedAt.UnixMilli(),
		Version:   r.Version,
	}
}

func (d reservationDocument) toAggregate() *domainbooking.Reservation {
	currency := d.Currency
	nightly := make([]money.Money, 0, len(d.Price.Nightly))
	for _, n := range d.Price.Nightly {
		nightly = append(nightly, money.Money{Amount: n, Currency: currency})
	}
	return &domainbooking.Reservation{
		ID:        domainbooking.ReservationID(d.ID),
		ListingID: domainlistings.ListingID(d.ListingID),
		GuestID:   d.GuestID,
		Range: domainrange.DateRange{
			CheckIn:  timestampToTime(d.Range.CheckIn),
			CheckOut: timestampToTime(d.Range.CheckOut),
		},
		Guests: d.Guests,
		Price: domainpricing.StayBreakdown{
			Nights:        d.Price.Nights,
			Nightly:       nightly,
			Accommodation: money.Money{Amount: d.Price.Accommodation, Currency: currency},
			CleaningFee:   money.Money{Amount: d.Price.CleaningFee, Currency: currency},
			ServiceFee:    money.Money{Amount: d.Price.ServiceFee, Currency: currency},
			Total:         money.Money{Amount: d.Price.Total, Currency: currency},
		},
		Policy:    domainbooking.PolicyTier(d.Policy),
		Status:    domainbooking.Status(d.Status),
		Refund:    money.Money{Amount: d.Refund, Currency: currency},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
