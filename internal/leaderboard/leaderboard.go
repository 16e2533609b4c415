// Package leaderboard derives standings and awards from a snapshot.
// Nothing is cached: every call recomputes from the score list, which is at most
// a few dozen cards.
package leaderboard

import (
	"sort"

	"github.com/trentd187/proof/internal/models"
)

// Entry is one row of the leaderboard.
type Entry struct {
	Player       models.Player `json:"player"`
	DisplayName  string        `json:"displayName"`
	TotalStrokes int           `json:"totalStrokes"`
	RoundsPlayed int           `json:"roundsPlayed"`
	TodayScore   int           `json:"todayScore"` // Total of the player's most recently submitted card
	Position     int           `json:"position"`   // 1-based rank after sorting
}

// Compute ranks every player. Players with at least one round sort ascending
// by total strokes (seat number breaks ties); players with no rounds always go
// last, in seat order, even though their stroke total of 0 is "lowest".
func Compute(d *models.AppData) []Entry {
	entries := make([]Entry, 0, len(d.Players))
	for _, p := range d.Players {
		e := Entry{Player: p, DisplayName: p.DisplayName()}
		var latest *models.Score
		for i := range d.Scores {
			s := &d.Scores[i]
			if s.PlayerID != p.ID {
				continue
			}
			e.TotalStrokes += s.Total
			e.RoundsPlayed++
			// >= so that a later card in the list wins a timestamp tie
			if latest == nil || !s.UpdatedAt.Before(latest.UpdatedAt) {
				latest = s
			}
		}
		if latest != nil {
			e.TodayScore = latest.Total
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		aPlayed, bPlayed := a.RoundsPlayed > 0, b.RoundsPlayed > 0
		switch {
		case aPlayed != bPlayed:
			return aPlayed
		case !aPlayed:
			return a.Player.Number < b.Player.Number
		case a.TotalStrokes != b.TotalStrokes:
			return a.TotalStrokes < b.TotalStrokes
		default:
			return a.Player.Number < b.Player.Number
		}
	})

	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
