package dto

import (
	"staybook/internal/domain/booking"
	"staybook/internal/domain/pricing"
)

type StayBreakdown struct {
	Nights        int     `json:"nights"`
	Nightly       []Money `json:"nightly_prices"`
	Accommodation Money   `json:"accommodation_total"`
	CleaningFee   Money   `json:"cleaning_fee"`
	ServiceFee    Money   `json:"service_fee"`
	Total         Money   `json:"total"`
}

func MapStayBreakdown(b pricing.StayBreakdown) StayBreakdown {
	nightly := make([]Money, 0, len(b.Nightly))
	for _, n := range b.Nightly {
		nightly = append(nightly, MapMoney(n))
	}
	return StayBreakdown{
		Nights:        b.Nights,
		Nightly:       nightly,
		Accommodation: MapMoney(b.Accommodation),
		CleaningFee:   MapMoney(b.CleaningFee),
		ServiceFee:    MapMoney(b.ServiceFee),
		Total:         MapMoney(b.Total),
	}
}

type StayQuote struct {
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
	Breakdown StayBreakdown `json:"breakdown"`
}

func MapStayQuote(check booking.StayCheck, b pricing.StayBreakdown) StayQuote {
	return StayQuote{
		Available: check.Available,
		Reason:    string(check.Reason),
		Breakdown: MapStayBreakdown(b),
	}
}

type Reservation struct {
	ID        string        `json:"id"`
	ListingID string        `json:"listing_id"`
	CheckIn   string        `json:"check_in"`
	CheckOut  string        `json:"check_out"`
	Guests    int           `json:"guests"`
	Status    string        `json:"status"`
	Policy    string        `json:"policy"`
	Price     StayBreakdown `json:"price"`
	Refund    *Money        `json:"refund,omitempty"`
}

func MapReservation(r *booking.Reservation) Reservation {
	out := Reservation{
		ID:        string(r.ID),
		ListingID: string(r.ListingID),
		CheckIn:   r.Range.CheckIn.Format("2006-01-02"),
		CheckOut:  r.Range.CheckOut.Format("2006-01-02"),
		Guests:    r.Guests,
		Status:    string(r.Status),
		Policy:    string(r.Policy),
		Price:     MapStayBreakdown(r.Price),
	}
	if r.Status == booking.StatusCancelled {
		refund := MapMoney(r.Refund)
		out.Refund = &refund
	}
	return out
}
