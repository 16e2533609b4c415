package trip

import (
	"fmt"
	"strings"

	"github.com/trentd187/proof/internal/models"
)

// PlayerUpdate is a profile edit. Nil fields are left alone.
type PlayerUpdate struct {
	Name     *string `json:"name"`
	Nickname *string `json:"nickname"`
	Handicap *int    `json:"handicap"`
	Avatar   *string `json:"avatar"`
	// ClearAvatar removes the avatar; it wins over Avatar.
	ClearAvatar bool `json:"clearAvatar"`
}

// UpdatePlayer applies a profile edit to one seat.
func UpdatePlayer(d *models.AppData, env Env, playerID string, u PlayerUpdate) (*models.AppData, []Change, error) {
	i := playerIndex(d, playerID)
	if i < 0 {
		return d, nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	p := d.Players[i]

	if u.Name != nil {
		name, err := required("name", *u.Name)
		if err != nil {
			return d, nil, err
		}
		p.Name = name
	}
	if u.Nickname != nil {
		p.Nickname = strings.TrimSpace(*u.Nickname)
	}
	if u.Handicap != nil {
		if *u.Handicap < 0 {
			return d, nil, fmt.Errorf("handicap %d: %w", *u.Handicap, ErrInvalidInput)
		}
		p.Handicap = *u.Handicap
	}
	switch {
	case u.ClearAvatar:
		p.Avatar = nil
	case u.Avatar != nil:
		avatar := *u.Avatar
		p.Avatar = &avatar
	}

	p.Version++
	p.UpdatedAt = env.Now()

	next := clone(d)
	next.Players = replaceAt(d.Players, i, p)
	return next, []Change{upsert(TablePlayers, p.ID, p)}, nil
}

// AwardPredictionPoints adds points to a player's prediction tally. The tally
// only goes up.
func AwardPredictionPoints(d *models.AppData, env Env, playerID string, points int) (*models.AppData, []Change, error) {
	if points <= 0 {
		return d, nil, fmt.Errorf("points %d: %w", points, ErrInvalidInput)
	}
	i := playerIndex(d, playerID)
	if i < 0 {
		return d, nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	p := d.Players[i]
	p.PredictionPoints += points
	p.Version++
	p.UpdatedAt = env.Now()

	next := clone(d)
	next.Players = replaceAt(d.Players, i, p)
	return next, []Change{upsert(TablePlayers, p.ID, p)}, nil
}
