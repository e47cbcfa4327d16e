package dto

import "staybook/internal/domain/pricing"

type PriceSuggestion struct {
	ListingID           string `json:"listing_id"`
	CurrentPrice        Money  `json:"current_price"`
	AverageAreaPrice    Money  `json:"average_area_price"`
	SimilarListingCount int    `json:"similar_listing_count"`
	PercentDiff         int    `json:"percent_diff"`
	IsSignificant       bool   `json:"is_significant"`
	Message             string `json:"message"`
}

func MapPriceSuggestion(listingID string, current Money, s pricing.Suggestion) PriceSuggestion {
	return PriceSuggestion{
		ListingID:           listingID,
		CurrentPrice:        current,
		AverageAreaPrice:    MapMoney(s.AverageAreaPrice),
		SimilarListingCount: s.SimilarListingCount,
		PercentDiff:         s.PercentDiff,
		IsSignificant:       s.Significant,
		Message:             suggestionMessage(s),
	}
}

func suggestionMessage(s pricing.Suggestion) string {
	switch {
	case !s.Significant:
		return "Your price is in line with similar listings in your area."
	case s.PercentDiff > 0:
		return "Your price is above similar listings in your area. Lowering it may attract more bookings."
	default:
		return "Your price is below similar listings in your area. You may be able to charge more."
	}
}
