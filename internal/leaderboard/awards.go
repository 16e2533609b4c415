package leaderboard

import (
	"fmt"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// Award is one line of the end-of-trip ceremony.
type Award struct {
	Title    string `json:"title"`
	WinnerID string `json:"winnerId,omitempty"`
	Winner   string `json:"winner"` // Display name, or "Unknown" for a dangling reference
	Value    string `json:"value"`
}

const unknown = "Unknown"

// Awards computes the trip awards. An award whose condition isn't met yet
// (no scores, nobody with points, ...) is left out rather than given to nobody.
func Awards(d *models.AppData) []Award {
	board := Compute(d)
	var out []Award

	// Trip Champion: lowest total among players who have played
	if len(board) > 0 && board[0].RoundsPlayed > 0 && board[0].TotalStrokes > 0 {
		out = append(out, Award{
			Title:    "Trip Champion",
			WinnerID: board[0].Player.ID,
			Winner:   board[0].DisplayName,
			Value:    fmt.Sprintf("%d total", board[0].TotalStrokes),
		})
	}

	// The Anchor: highest total, only meaningful with two or more players on the board
	var played []Entry
	for _, e := range board {
		if e.RoundsPlayed > 0 {
			played = append(played, e)
		}
	}
	if len(played) > 1 {
		last := played[len(played)-1]
		out = append(out, Award{
			Title:    "The Anchor",
			WinnerID: last.Player.ID,
			Winner:   last.DisplayName,
			Value:    fmt.Sprintf("%d total", last.TotalStrokes),
		})
	}

	if p, ok := maxPlayer(d.Players, func(p models.Player) int { return p.ChallengePoints }); ok {
		out = append(out, Award{
			Title:    "Challenge King",
			WinnerID: p.ID,
			Winner:   p.DisplayName(),
			Value:    fmt.Sprintf("%d points", p.ChallengePoints),
		})
	}

	if len(d.Scores) > 0 {
		low, high := d.Scores[0], d.Scores[0]
		for _, s := range d.Scores[1:] {
			if s.Total < low.Total {
				low = s
			}
			if s.Total > high.Total {
				high = s
			}
		}
		out = append(out, roundAward(d, "Hot Round", low), roundAward(d, "Cold Round", high))
	}

	if a, ok := countAward(d, "Content Creator", "photos", func(yield func(string)) {
		for _, p := range d.Photos {
			yield(p.UploadedBy)
		}
	}); ok {
		out = append(out, a)
	}
	if a, ok := countAward(d, "Chatterbox", "messages", func(yield func(string)) {
		for _, m := range d.Messages {
			yield(m.PlayerID)
		}
	}); ok {
		out = append(out, a)
	}
	if a, ok := countAward(d, "Bookie", "bets created", func(yield func(string)) {
		for _, b := range d.Bets {
			yield(b.CreatedBy)
		}
	}); ok {
		out = append(out, a)
	}

	if p, ok := maxPlayer(d.Players, func(p models.Player) int { return p.PredictionPoints }); ok {
		out = append(out, Award{
			Title:    "The Oracle",
			WinnerID: p.ID,
			Winner:   p.DisplayName(),
			Value:    fmt.Sprintf("%d points", p.PredictionPoints),
		})
	}

	return out
}

func roundAward(d *models.AppData, title string, s models.Score) Award {
	course := unknown
	if r, ok := models.RoundByNumber(s.RoundNumber); ok {
		course = r.Course
	}
	return Award{
		Title:    title,
		WinnerID: s.PlayerID,
		Winner:   trip.PlayerName(d, s.PlayerID),
		Value:    fmt.Sprintf("%d at %s", s.Total, course),
	}
}

// maxPlayer returns the player with the highest metric, first in roster order on
// ties, and only if that metric is above zero.
func maxPlayer(players []models.Player, metric func(models.Player) int) (models.Player, bool) {
	var best models.Player
	found := false
	for _, p := range players {
		if !found || metric(p) > metric(best) {
			best, found = p, true
		}
	}
	if !found || metric(best) <= 0 {
		return models.Player{}, false
	}
	return best, true
}

// countAward picks whoever appears most often in the sequence.
func countAward(d *models.AppData, title, unit string, seq func(yield func(string))) (Award, bool) {
	leader, n, ok := mostFrequent(seq)
	if !ok {
		return Award{}, false
	}
	return Award{
		Title:    title,
		WinnerID: leader,
		Winner:   trip.PlayerName(d, leader),
		Value:    fmt.Sprintf("%d %s", n, unit),
	}, true
}

// mostFrequent returns the id yielded most often and its count; the first one
// seen wins a tie.
func mostFrequent(seq func(yield func(string))) (string, int, bool) {
	counts := make(map[string]int)
	var order []string
	seq(func(id string) {
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	})
	if len(order) == 0 {
		return "", 0, false
	}
	leader := order[0]
	for _, id := range order[1:] {
		if counts[id] > counts[leader] {
			leader = id
		}
	}
	return leader, counts[leader], true
}
