package trip

import "github.com/trentd187/proof/internal/models"

// Read accessors. A miss is a normal outcome, reported with ok=false; callers
// render their own fallback ("Unknown") rather than handling an error.

func GetPlayerByID(d *models.AppData, id string) (models.Player, bool) {
	for _, p := range d.Players {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

// GetPlayerScores returns the player's cards in stored order, or nil.
func GetPlayerScores(d *models.AppData, playerID string) []models.Score {
	var out []models.Score
	for _, s := range d.Scores {
		if s.PlayerID == playerID {
			out = append(out, s)
		}
	}
	return out
}

// GetRoundScores returns every card for one round, or nil.
func GetRoundScores(d *models.AppData, round int) []models.Score {
	var out []models.Score
	for _, s := range d.Scores {
		if s.RoundNumber == round {
			out = append(out, s)
		}
	}
	return out
}

func GetChallengeByID(d *models.AppData, id string) (models.Challenge, bool) {
	for _, c := range d.Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return models.Challenge{}, false
}

func GetBetByID(d *models.AppData, id string) (models.Bet, bool) {
	for _, b := range d.Bets {
		if b.ID == id {
			return b, true
		}
	}
	return models.Bet{}, false
}

func GetPhotoByID(d *models.AppData, id string) (models.Photo, bool) {
	for _, p := range d.Photos {
		if p.ID == id {
			return p, true
		}
	}
	return models.Photo{}, false
}

// PlayerName is the display name for id, or "Unknown".
func PlayerName(d *models.AppData, id string) string {
	if p, ok := GetPlayerByID(d, id); ok {
		return p.DisplayName()
	}
	return "Unknown"
}
