package hostpricing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
)

const (
	createSeasonKey = "host.pricing.seasons.create"
	deleteSeasonKey = "host.pricing.seasons.delete"
)

type CreateSeasonCommand struct {
	HostID     string
	ListingID  string
	Name       string
	StartDate  time.Time
	EndDate    time.Time // inclusive
	Multiplier float64
}

func (c CreateSeasonCommand) Key() string { return createSeasonKey }

func (c CreateSeasonCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return domainpricing.ErrSeasonNameRequired
	}
	if c.Multiplier <= 0 {
		return domainpricing.ErrSeasonMultiplier
	}
	return nil
}

type CreateSeasonResult struct {
	SeasonID string `json:"season_id"`
}

// CreateSeasonHandler adds a seasonal pricing window. Overlap with existing
// windows is allowed; the newest window takes precedence on shared dates.
type CreateSeasonHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CreateSeasonHandler) Handle(ctx context.Context, cmd CreateSeasonCommand) (*CreateSeasonResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.HostID(cmd.HostID)) {
		return nil, ErrListingNotOwned
	}

	sequence, err := unit.Seasons().NextSequence(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	window, err := domainpricing.NewSeasonalWindow(
		uuid.NewString(), cmd.Name, cmd.StartDate, cmd.EndDate, cmd.Multiplier, sequence, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err := unit.Seasons().Save(ctx, listing.ID, window); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &CreateSeasonResult{SeasonID: window.ID}, nil
}

type DeleteSeasonCommand struct {
	HostID    string
	ListingID string
	SeasonID  string
}

func (c DeleteSeasonCommand) Key() string { return deleteSeasonKey }

type DeleteSeasonResult struct {
	SeasonID string `json:"season_id"`
}

type DeleteSeasonHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *DeleteSeasonHandler) Handle(ctx context.Context, cmd DeleteSeasonCommand) (*DeleteSeasonResult, error) {
	unit, ctx, commit, rollback, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer rollback()

	listing, err := unit.Listings().ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if !listing.OwnedBy(domainlistings.HostID(cmd.HostID)) {
		return nil, ErrListingNotOwned
	}

	if err := unit.Seasons().Delete(ctx, listing.ID, cmd.SeasonID); err != nil {
		return nil, err
	}

	if err := commit(); err != nil {
		return nil, err
	}
	return &DeleteSeasonResult{SeasonID: cmd.SeasonID}, nil
}

var _ commands.Handler[CreateSeasonCommand, *CreateSeasonResult] = (*CreateSeasonHandler)(nil)
var _ commands.Handler[DeleteSeasonCommand, *DeleteSeasonResult] = (*DeleteSeasonHandler)(nil)
