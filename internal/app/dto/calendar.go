package dto

import (
	"time"

	"staybook/internal/domain/pricing"
)

type CalendarDay struct {
	Date        string `json:"date"`
	Price       Money  `json:"price"`
	IsAvailable bool   `json:"is_available"`
	IsCustom    bool   `json:"is_custom"`
	MinimumStay int    `json:"minimum_stay"`
}

type MonthCalendar struct {
	ListingID string        `json:"listing_id"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	Days      []CalendarDay `json:"days"`
}

func MapMonthCalendar(listingID string, year int, month time.Month, days []pricing.DayPricing) MonthCalendar {
	out := MonthCalendar{
		ListingID: listingID,
		Year:      year,
		Month:     int(month),
		Days:      make([]CalendarDay, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, CalendarDay{
			Date:        d.Date.Format("2006-01-02"),
			Price:       MapMoney(d.Price),
			IsAvailable: d.Available,
			IsCustom:    d.Custom,
			MinimumStay: d.MinimumStay,
		})
	}
	return out
}
