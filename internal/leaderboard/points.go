package leaderboard

import (
	"fmt"
	"sort"

	"github.com/trentd187/proof/internal/models"
)

// PointsKind selects which tally the points board ranks by.
type PointsKind string

const (
	ByChallenge  PointsKind = "challenge"
	ByPrediction PointsKind = "prediction"
)

// ParsePointsKind validates a ?by= value.
func ParsePointsKind(s string) (PointsKind, error) {
	switch k := PointsKind(s); k {
	case ByChallenge, ByPrediction:
		return k, nil
	}
	return "", fmt.Errorf("unknown points board %q", s)
}

// PointsEntry is one row of the points board.
type PointsEntry struct {
	Player      models.Player `json:"player"`
	DisplayName string        `json:"displayName"`
	Points      int           `json:"points"`
	Position    int           `json:"position"`
}

// Points ranks every player by the chosen tally, highest first. Ties keep
// roster order.
func Points(d *models.AppData, kind PointsKind) []PointsEntry {
	entries := make([]PointsEntry, 0, len(d.Players))
	for _, p := range d.Players {
		n := p.ChallengePoints
		if kind == ByPrediction {
			n = p.PredictionPoints
		}
		entries = append(entries, PointsEntry{Player: p, DisplayName: p.DisplayName(), Points: n})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
