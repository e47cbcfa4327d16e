package listings

import (
	"time"

	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

const (
	EventListingCreated        = "listings.created"
	EventListingPricingUpdated = "listings.pricing_updated"
)

type ListingCreated struct {
	events.BaseEvent
	Host HostID
}

func newListingCreatedEvent(id ListingID, host HostID, at time.Time) ListingCreated {
	return ListingCreated{
		BaseEvent: events.BaseEvent{Name: EventListingCreated, Aggregate: string(id), Time: at},
		Host:      host,
	}
}

type ListingPricingUpdated struct {
	events.BaseEvent
	BasePrice money.Money
}

func newListingPricingUpdatedEvent(id ListingID, base money.Money, at time.Time) ListingPricingUpdated {
	return ListingPricingUpdated{
		BaseEvent: events.BaseEvent{Name: EventListingPricingUpdated, Aggregate: string(id), Time: at},
		BasePrice: base,
	}
}
