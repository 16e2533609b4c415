package trip

import (
	"fmt"

	"github.com/trentd187/proof/internal/models"
)

// GroupSize is the number of players in a foursome.
const GroupSize = 4

// UpdateFoursomes replaces the pairing sheet. Every round must split the roster
// into groups of four with each player in exactly one group.
func UpdateFoursomes(d *models.AppData, f models.Foursomes) (*models.AppData, []Change, error) {
	for r, groups := range f.Rounds() {
		if err := checkPartition(d, groups); err != nil {
			return d, nil, fmt.Errorf("round %d: %w", r+1, err)
		}
	}
	next := clone(d)
	next.Foursomes = f
	return next, []Change{upsert(TableDocuments, DocFoursomes, f)}, nil
}

func checkPartition(d *models.AppData, groups [][]string) error {
	seen := make(map[string]bool, len(d.Players))
	for _, g := range groups {
		if len(g) != GroupSize {
			return fmt.Errorf("group of %d: %w", len(g), ErrInvalidInput)
		}
		for _, id := range g {
			if err := requirePlayer(d, id); err != nil {
				return err
			}
			if seen[id] {
				return fmt.Errorf("%q is in two groups: %w", id, ErrInvalidInput)
			}
			seen[id] = true
		}
	}
	if len(seen) != len(d.Players) {
		return fmt.Errorf("%d of %d players placed: %w", len(seen), len(d.Players), ErrInvalidInput)
	}
	return nil
}

// UpdateItineraryNotes replaces the day-by-day plan.
func UpdateItineraryNotes(d *models.AppData, n models.ItineraryNotes) (*models.AppData, []Change, error) {
	next := clone(d)
	next.ItineraryNotes = n
	return next, []Change{upsert(TableDocuments, DocItineraryNotes, n)}, nil
}

// UpdateTripInfo replaces the logistics card.
func UpdateTripInfo(d *models.AppData, t models.TripInfo) (*models.AppData, []Change, error) {
	next := clone(d)
	next.TripInfo = t
	return next, []Change{upsert(TableDocuments, DocTripInfo, t)}, nil
}

// Reset throws everything away and starts over from the default snapshot.
// The fresh players and challenges are stamped one version above anything in
// d, so other instances still holding pre-reset records accept them and every
// edit made after the reset.
func Reset(d *models.AppData) (*models.AppData, []Change) {
	next := Default()
	v := maxVersion(d) + 1
	for i := range next.Players {
		next.Players[i].Version = v
	}
	for i := range next.Challenges {
		next.Challenges[i].Version = v
	}
	return next, []Change{{Table: TableAll, Op: OpReplace, Record: next}}
}

// maxVersion is the highest record version anywhere in d.
func maxVersion(d *models.AppData) int64 {
	var v int64
	for _, p := range d.Players {
		v = max(v, p.Version)
	}
	for _, s := range d.Scores {
		v = max(v, s.Version)
	}
	for _, p := range d.Photos {
		v = max(v, p.Version)
	}
	for _, c := range d.Challenges {
		v = max(v, c.Version)
	}
	for _, b := range d.Bets {
		v = max(v, b.Version)
	}
	for _, m := range d.Messages {
		v = max(v, m.Version)
	}
	for _, q := range d.Quotes {
		v = max(v, q.Version)
	}
	return v
}
