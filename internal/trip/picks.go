package trip

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trentd187/proof/internal/models"
)

// PredictionInput is a player's set of picks for a round.
type PredictionInput struct {
	PlayerID        string `json:"playerId"`
	RoundNumber     int    `json:"roundNumber"`
	PredictedWinner string `json:"predictedWinner"`
	OwnOverUnder    int    `json:"ownOverUnder"`
	FirstWater      string `json:"firstWater"`
	Most3Putts      string `json:"most3Putts"`
}

// AddPrediction upserts the picks for (PlayerID, RoundNumber). A resubmission
// replaces the earlier picks wholesale but keeps the record id.
func AddPrediction(d *models.AppData, env Env, in PredictionInput) (*models.AppData, []Change, error) {
	if err := requirePlayer(d, in.PlayerID); err != nil {
		return d, nil, err
	}
	if err := requireRound(in.RoundNumber); err != nil {
		return d, nil, err
	}
	for _, pick := range []string{in.PredictedWinner, in.FirstWater, in.Most3Putts} {
		if pick == "" {
			return d, nil, fmt.Errorf("all three picks are required: %w", ErrInvalidInput)
		}
		if err := requirePlayer(d, pick); err != nil {
			return d, nil, err
		}
	}

	p := models.Prediction{
		PlayerID:        in.PlayerID,
		RoundNumber:     in.RoundNumber,
		PredictedWinner: in.PredictedWinner,
		OwnOverUnder:    in.OwnOverUnder,
		FirstWater:      in.FirstWater,
		Most3Putts:      in.Most3Putts,
		CreatedAt:       env.Now(),
	}
	next := clone(d)
	i := slices.IndexFunc(d.Predictions, func(e models.Prediction) bool {
		return e.PlayerID == in.PlayerID && e.RoundNumber == in.RoundNumber
	})
	if i >= 0 {
		p.ID = d.Predictions[i].ID
		next.Predictions = replaceAt(d.Predictions, i, p)
	} else {
		p.ID = env.NewID()
		next.Predictions = withBack(d.Predictions, p)
	}
	return next, []Change{upsert(TablePredictions, p.ID, p)}, nil
}

// CapsuleInput is a time capsule submission. PlayerID is the whole key.
type CapsuleInput struct {
	PlayerID      string `json:"playerId"`
	TripWinner    string `json:"tripWinner"`
	TripLast      string `json:"tripLast"`
	SecretGoal    string `json:"secretGoal"`
	Prediction    string `json:"prediction"`
	MessageToSelf string `json:"messageToSelf"`
}

// AddTimeCapsuleEntry seals (or reseals) a player's capsule entry.
func AddTimeCapsuleEntry(d *models.AppData, env Env, in CapsuleInput) (*models.AppData, []Change, error) {
	if err := requirePlayer(d, in.PlayerID); err != nil {
		return d, nil, err
	}
	for _, pick := range []string{in.TripWinner, in.TripLast} {
		if pick == "" {
			continue
		}
		if err := requirePlayer(d, pick); err != nil {
			return d, nil, err
		}
	}

	e := models.TimeCapsuleEntry{
		PlayerID:      in.PlayerID,
		TripWinner:    in.TripWinner,
		TripLast:      in.TripLast,
		SecretGoal:    strings.TrimSpace(in.SecretGoal),
		Prediction:    strings.TrimSpace(in.Prediction),
		MessageToSelf: strings.TrimSpace(in.MessageToSelf),
		CreatedAt:     env.Now(),
	}
	next := clone(d)
	i := slices.IndexFunc(d.TimeCapsule, func(x models.TimeCapsuleEntry) bool { return x.PlayerID == in.PlayerID })
	if i >= 0 {
		next.TimeCapsule = replaceAt(d.TimeCapsule, i, e)
	} else {
		next.TimeCapsule = withBack(d.TimeCapsule, e)
	}
	return next, []Change{upsert(TableTimeCapsule, e.PlayerID, e)}, nil
}

// SetCapsuleRevealed opens or reseals the capsule for everyone.
func SetCapsuleRevealed(d *models.AppData, revealed bool) (*models.AppData, []Change, error) {
	if d.CapsuleRevealed == revealed {
		return d, nil, nil
	}
	next := clone(d)
	next.CapsuleRevealed = revealed
	return next, []Change{upsert(TableDocuments, DocCapsuleRevealed, revealed)}, nil
}

// VisibleCapsule returns the entries viewerID may read: everything once the
// capsule is revealed, otherwise only the viewer's own entry.
func VisibleCapsule(d *models.AppData, viewerID string) []models.TimeCapsuleEntry {
	if d.CapsuleRevealed {
		return d.TimeCapsule
	}
	out := []models.TimeCapsuleEntry{}
	for _, e := range d.TimeCapsule {
		if e.PlayerID == viewerID {
			out = append(out, e)
		}
	}
	return out
}
