package leaderboard

import (
	"fmt"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// Severity ranks how bad a Wall of Shame entry is.
type Severity string

const (
	SeverityMild   Severity = "mild"
	SeverityMedium Severity = "medium"
	SeveritySevere Severity = "severe"
)

// ShameEntry is one plaque on the Wall of Shame.
type ShameEntry struct {
	Title    string   `json:"title"`
	PlayerID string   `json:"playerId,omitempty"` // Empty when the plaque is shared
	Player   string   `json:"player"`
	Detail   string   `json:"detail"`
	Severity Severity `json:"severity"`
}

// Par is the course par the handicap differential is measured against.
const Par = 72

const multiplePlayers = "Multiple Players"

// Shame computes the Wall of Shame in display order. Like Awards, an entry whose
// condition isn't met is left out.
func Shame(d *models.AppData) []ShameEntry {
	var out []ShameEntry

	// Worst Single Round: highest total, first card wins a tie
	if len(d.Scores) > 0 {
		worst := d.Scores[0]
		for _, s := range d.Scores[1:] {
			if s.Total > worst.Total {
				worst = s
			}
		}
		course := unknown
		if r, ok := models.RoundByNumber(worst.RoundNumber); ok {
			course = r.Course
		}
		out = append(out, ShameEntry{
			Title:    "Worst Single Round",
			PlayerID: worst.PlayerID,
			Player:   trip.PlayerName(d, worst.PlayerID),
			Detail:   fmt.Sprintf("Shot %d at %s", worst.Total, course),
			Severity: SeveritySevere,
		})
	}

	if id, n, ok := mostFrequent(func(yield func(string)) {
		for _, s := range d.Scores {
			if s.Total > 100 {
				yield(s.PlayerID)
			}
		}
	}); ok {
		out = append(out, ShameEntry{
			Title:    "Triple Digit Club President",
			PlayerID: id,
			Player:   trip.PlayerName(d, id),
			Detail:   fmt.Sprintf("%d %s over 100", n, plural(n, "round")),
			Severity: SeveritySevere,
		})
	}

	if e, ok := allTalk(d); ok {
		out = append(out, e)
	}

	if e, ok := handicapFraud(d); ok {
		out = append(out, e)
	}

	if id, n, ok := mostFrequent(func(yield func(string)) {
		for _, q := range d.Quotes {
			yield(q.SaidBy)
		}
	}); ok && n >= 2 {
		out = append(out, ShameEntry{
			Title:    "Foot in Mouth",
			PlayerID: id,
			Player:   trip.PlayerName(d, id),
			Detail:   fmt.Sprintf("%d quotes immortalized in the book", n),
			Severity: SeverityMild,
		})
	}

	if e, ok := viralFailure(d); ok {
		out = append(out, e)
	}

	if id, n, ok := mostFrequent(func(yield func(string)) {
		for _, b := range d.Bets {
			if b.Status != models.BetSettled || b.Winner == nil {
				continue
			}
			for _, p := range b.PlayersInvolved {
				if p != *b.Winner {
					yield(p)
				}
			}
		}
	}); ok && n >= 2 {
		out = append(out, ShameEntry{
			Title:    "Bad Gambler",
			PlayerID: id,
			Player:   trip.PlayerName(d, id),
			Detail:   fmt.Sprintf("Lost %d side bets", n),
			Severity: SeverityMild,
		})
	}

	return out
}

// allTalk covers claims that witnesses are currently disputing. A vetoed claim
// is wiped back to open, so only live disputes are visible in the snapshot.
func allTalk(d *models.AppData) (ShameEntry, bool) {
	var claimants []string
	for _, c := range d.Challenges {
		if c.Status == models.ChallengeClaimed && c.ClaimedBy != nil && len(c.DisputedBy) > 0 {
			claimants = append(claimants, *c.ClaimedBy)
		}
	}
	if len(claimants) == 0 {
		return ShameEntry{}, false
	}
	e := ShameEntry{
		Title:    "All Talk",
		Player:   multiplePlayers,
		Detail:   fmt.Sprintf("%d %s under dispute", len(claimants), plural(len(claimants), "claim")),
		Severity: SeverityMedium,
	}
	if id := claimants[0]; len(distinctIDs(claimants)) == 1 {
		e.PlayerID = id
		e.Player = trip.PlayerName(d, id)
	}
	return e, true
}

// handicapFraud finds the card furthest over what the player's handicap
// promised (Par + handicap). Cards for players no longer on the roster are
// skipped, and only a positive differential counts.
func handicapFraud(d *models.AppData) (ShameEntry, bool) {
	var (
		worst    models.Score
		expected int
		diff     int
		found    bool
	)
	for _, s := range d.Scores {
		p, ok := trip.GetPlayerByID(d, s.PlayerID)
		if !ok {
			continue
		}
		exp := Par + p.Handicap
		if !found || s.Total-exp > diff {
			worst, expected, diff, found = s, exp, s.Total-exp, true
		}
	}
	if !found || diff <= 0 {
		return ShameEntry{}, false
	}
	return ShameEntry{
		Title:    "Handicap Fraud",
		PlayerID: worst.PlayerID,
		Player:   trip.PlayerName(d, worst.PlayerID),
		Detail:   fmt.Sprintf("Shot %d (+%d vs expected %d)", worst.Total, diff, expected),
		Severity: SeverityMedium,
	}, true
}

// viralFailure is the disaster photo with the most dead and laugh reactions.
// The blame goes to the first tagged player, or the uploader if nobody is tagged.
func viralFailure(d *models.AppData) (ShameEntry, bool) {
	var (
		top   models.Photo
		count int
	)
	for _, p := range d.Photos {
		if p.ProofType != models.ProofDisaster {
			continue
		}
		if n := p.Reactions.Dead + p.Reactions.Laugh; n > count {
			top, count = p, n
		}
	}
	if count == 0 {
		return ShameEntry{}, false
	}
	blame := top.UploadedBy
	if len(top.TaggedPlayers) > 0 {
		blame = top.TaggedPlayers[0]
	}
	return ShameEntry{
		Title:    "Viral Failure",
		PlayerID: blame,
		Player:   trip.PlayerName(d, blame),
		Detail:   fmt.Sprintf("%d reactions on their disaster", count),
		Severity: SeverityMedium,
	}, true
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func distinctIDs(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
