package trip

import (
	"fmt"
	"slices"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/scoring"
)

// ScoreInput is a card submission. Either HoleScores or Quick is used; Quick
// wins when both are present.
type ScoreInput struct {
	PlayerID    string      `json:"playerId"`
	RoundNumber int         `json:"roundNumber"`
	HoleScores  []int       `json:"holeScores"`
	BlooperNote string      `json:"blooperNote"`
	Quick       *QuickEntry `json:"quick,omitempty"`
}

// QuickEntry is a card entered as two nine-hole totals.
type QuickEntry struct {
	Front int `json:"front"`
	Back  int `json:"back"`
}

// AddScore upserts the card for (PlayerID, RoundNumber). An existing card keeps
// its id, creation time and position in the list; everything else is replaced.
func AddScore(d *models.AppData, env Env, in ScoreInput) (*models.AppData, []Change, error) {
	if err := requirePlayer(d, in.PlayerID); err != nil {
		return d, nil, err
	}
	if err := requireRound(in.RoundNumber); err != nil {
		return d, nil, err
	}

	now := env.Now()
	s := models.Score{
		PlayerID:    in.PlayerID,
		RoundNumber: in.RoundNumber,
		BlooperNote: in.BlooperNote,
		UpdatedAt:   now,
	}
	if q := in.Quick; q != nil {
		if q.Front < 0 || q.Back < 0 {
			return d, nil, fmt.Errorf("quick totals %d/%d: %w", q.Front, q.Back, ErrInvalidInput)
		}
		s.HoleScores = scoring.QuickModeHoles(q.Front, q.Back)
		s.Total = q.Front + q.Back
		s.Estimated = true
	} else {
		if len(in.HoleScores) > models.HolesPerRound {
			return d, nil, fmt.Errorf("%d holes: %w", len(in.HoleScores), ErrInvalidInput)
		}
		s.HoleScores = scoring.NormalizeHoles(in.HoleScores)
		s.Total = scoring.Total(s.HoleScores)
	}

	next := clone(d)
	i := slices.IndexFunc(d.Scores, func(e models.Score) bool {
		return e.PlayerID == in.PlayerID && e.RoundNumber == in.RoundNumber
	})
	if i >= 0 {
		prev := d.Scores[i]
		s.ID = prev.ID
		s.CreatedAt = prev.CreatedAt
		s.Version = prev.Version + 1
		next.Scores = replaceAt(d.Scores, i, s)
	} else {
		s.ID = env.NewID()
		s.CreatedAt = now
		s.Version = 1
		next.Scores = withBack(d.Scores, s)
	}
	return next, []Change{upsert(TableScores, s.ID, s)}, nil
}
