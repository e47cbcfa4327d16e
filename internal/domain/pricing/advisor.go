package pricing

import (
	"errors"
	"math"

	"staybook/internal/domain/shared/money"
)

// ErrInsufficientData means no comparable listings exist to compare against.
// Callers should render "not enough data" rather than treat it as a failure.
var ErrInsufficientData = errors.New("pricing: no comparable listings for suggestion")

// significanceThresholdPercent is the gap, in percent, from which a price
// difference is worth surfacing to the host.
const significanceThresholdPercent = 10

// Suggestion compares a listing's base price against comparable listings in
// the same area.
type Suggestion struct {
	AverageAreaPrice    money.Money
	SimilarListingCount int
	PercentDiff         int
	Significant         bool
}

// Suggest computes the directional pricing hint. With zero samples it returns
// ErrInsufficientData instead of dividing by zero.
func Suggest(current money.Money, comparables []money.Money) (Suggestion, error) {
	if len(comparables) == 0 {
		return Suggestion{}, ErrInsufficientData
	}

	var sum int64
	for _, c := range comparables {
		if c.Currency != current.Currency {
			return Suggestion{}, money.ErrCurrencyMismatch
		}
		sum += c.Amount
	}
	average := float64(sum) / float64(len(comparables))
	if average <= 0 {
		return Suggestion{}, ErrInsufficientData
	}

	diff := int(math.Round((float64(current.Amount) - average) / average * 100))
	return Suggestion{
		AverageAreaPrice:    money.Money{Amount: int64(math.Round(average)), Currency: current.Currency},
		SimilarListingCount: len(comparables),
		PercentDiff:         diff,
		Significant:         diff >= significanceThresholdPercent || diff <= -significanceThresholdPercent,
	}, nil
}
