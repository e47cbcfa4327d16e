package pricing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
)

var (
	ErrSeasonNameRequired = errors.New("pricing: seasonal window name is required")
	ErrSeasonMultiplier   = errors.New("pricing: seasonal multiplier must be positive")
	ErrSeasonRange        = errors.New("pricing: seasonal window end must not precede start")
	ErrSeasonNotFound     = errors.New("pricing: seasonal window not found")
)

// SeasonalWindow is a named date span with a price multiplier. Start and End
// are inclusive calendar dates. Windows of one listing may overlap; the
// resolver picks the most recently created one for a given date.
type SeasonalWindow struct {
	ID         string
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier float64
	// Sequence is a monotonically increasing creation counter per listing.
	// It decides precedence between overlapping windows.
	Sequence  int64
	CreatedAt time.Time
}

func NewSeasonalWindow(id, name string, start, end time.Time, multiplier float64, sequence int64, now time.Time) (SeasonalWindow, error) {
	if strings.TrimSpace(name) == "" {
		return SeasonalWindow{}, ErrSeasonNameRequired
	}
	if multiplier <= 0 {
		return SeasonalWindow{}, ErrSeasonMultiplier
	}
	start = daterange.Day(start)
	end = daterange.Day(end)
	if end.Before(start) {
		return SeasonalWindow{}, ErrSeasonRange
	}
	return SeasonalWindow{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Start:      start,
		End:        end,
		Multiplier: multiplier,
		Sequence:   sequence,
		CreatedAt:  now.UTC(),
	}, nil
}

// Covers reports whether date falls inside the window (inclusive on both ends).
func (w SeasonalWindow) Covers(date time.Time) bool {
	d := daterange.Day(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

// SeasonalIndex resolves which seasonal multiplier applies to a date.
type SeasonalIndex struct {
	windows []SeasonalWindow
}

// NewSeasonalIndex builds an index over the listing's windows, ordered by
// creation sequence so precedence resolution is deterministic.
func NewSeasonalIndex(windows []SeasonalWindow) SeasonalIndex {
	sorted := append([]SeasonalWindow(nil), windows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Sequence < sorted[j].Sequence
	})
	return SeasonalIndex{windows: sorted}
}

// WindowsCovering returns every window covering the date, oldest first.
func (idx SeasonalIndex) WindowsCovering(date time.Time) []SeasonalWindow {
	var out []SeasonalWindow
	for _, w := range idx.windows {
		if w.Covers(date) {
			out = append(out, w)
		}
	}
	return out
}

// MultiplierFor returns the applicable seasonal multiplier for the date.
// When windows overlap, the most recently created one wins. Dates outside
// every window get the neutral factor 1.0.
func (idx SeasonalIndex) MultiplierFor(date time.Time) float64 {
	covering := idx.WindowsCovering(date)
	if len(covering) == 0 {
		return 1.0
	}
	return covering[len(covering)-1].Multiplier
}

// SeasonRepository persists seasonal windows per listing.
type SeasonRepository interface {
	ForListing(ctx context.Context, id listings.ListingID) (SeasonalIndex, error)
	Save(ctx context.Context, id listings.ListingID, window SeasonalWindow) error
	Delete(ctx context.Context, id listings.ListingID, windowID string) error
	// NextSequence reserves the next creation counter for the listing.
	NextSequence(ctx context.Context, id listings.ListingID) (int64, error)
}
