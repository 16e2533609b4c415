package trip

import (
	"fmt"
	"slices"

	"github.com/trentd187/proof/internal/models"
)

// BetInput creates a side bet.
type BetInput struct {
	Description     string   `json:"description"`
	Stakes          string   `json:"stakes"`
	PlayersInvolved []string `json:"playersInvolved"`
	CreatedBy       string   `json:"createdBy"`
}

// AddBet opens a bet between at least two distinct players.
func AddBet(d *models.AppData, env Env, in BetInput) (*models.AppData, []Change, error) {
	desc, err := required("description", in.Description)
	if err != nil {
		return d, nil, err
	}
	stakes, err := required("stakes", in.Stakes)
	if err != nil {
		return d, nil, err
	}
	if err := requirePlayer(d, in.CreatedBy); err != nil {
		return d, nil, err
	}
	involved := distinct(in.PlayersInvolved)
	if len(involved) < 2 {
		return d, nil, fmt.Errorf("a bet needs at least two players: %w", ErrInvalidInput)
	}
	for _, id := range involved {
		if err := requirePlayer(d, id); err != nil {
			return d, nil, err
		}
	}

	b := models.Bet{
		ID:              env.NewID(),
		Description:     desc,
		PlayersInvolved: involved,
		Stakes:          stakes,
		Status:          models.BetOpen,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       env.Now(),
		Version:         1,
	}
	next := clone(d)
	next.Bets = withFront(d.Bets, b)
	return next, []Change{upsert(TableBets, b.ID, b)}, nil
}

// SettleBet names the winner. Settlement is final: a second call fails with
// ErrBetSettled and the first winner stands.
func SettleBet(d *models.AppData, betID, winnerID string) (*models.AppData, []Change, error) {
	i := slices.IndexFunc(d.Bets, func(b models.Bet) bool { return b.ID == betID })
	if i < 0 {
		return d, nil, fmt.Errorf("bet %q: %w", betID, ErrNotFound)
	}
	b := d.Bets[i]
	if b.Status == models.BetSettled {
		return d, nil, ErrBetSettled
	}
	if !slices.Contains(b.PlayersInvolved, winnerID) {
		return d, nil, fmt.Errorf("%q: %w", winnerID, ErrWinnerNotInvolved)
	}

	winner := winnerID
	b.Status = models.BetSettled
	b.Winner = &winner
	b.Version++
	next := clone(d)
	next.Bets = replaceAt(d.Bets, i, b)
	return next, []Change{upsert(TableBets, b.ID, b)}, nil
}
