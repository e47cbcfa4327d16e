package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

// ErrUnknownPolicy is a data-integrity failure: the stored policy tier is not
// one this code knows. The refund defaults to zero (fail-safe deny) but the
// caller must surface this distinctly from a legitimate zero refund.
var ErrUnknownPolicy = errors.New("booking: unrecognized cancellation policy")

// PolicyTier is the cancellation policy attached to a reservation. It is
// immutable once attached.
type PolicyTier string

const (
	PolicyFlexible PolicyTier = "flexible"
	PolicyModerate PolicyTier = "moderate"
	PolicyStrict   PolicyTier = "strict"
)

func ParsePolicy(raw string) (PolicyTier, error) {
	tier := PolicyTier(strings.ToLower(strings.TrimSpace(raw)))
	if err := tier.Validate(); err != nil {
		return "", err
	}
	return tier, nil
}

func (p PolicyTier) Validate() error {
	switch p {
	case PolicyFlexible, PolicyModerate, PolicyStrict:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, string(p))
	}
}

// CalculateRefund computes the refund for cancelling a stay today. Both dates
// are truncated to midnight before the day count, so a check-in later today
// counts as zero days away.
//
//	flexible: full refund until the day before check-in
//	moderate: full refund 5+ days out, half refund 1-4 days out
//	strict:   half refund 7+ days out, nothing closer
func CalculateRefund(total money.Money, checkIn time.Time, policy PolicyTier, today time.Time) (money.Money, error) {
	days := daterange.DaysBetween(today, checkIn)
	none := money.Zero(total.Currency)

	switch policy {
	case PolicyFlexible:
		if days >= 1 {
			return total, nil
		}
		return none, nil
	case PolicyModerate:
		if days >= 5 {
			return total, nil
		}
		if days >= 1 {
			return total.Percent(50), nil
		}
		return none, nil
	case PolicyStrict:
		if days >= 7 {
			return total.Percent(50), nil
		}
		return none, nil
	default:
		return none, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(policy))
	}
}
