package trip

import (
	"fmt"
	"slices"

	"github.com/trentd187/proof/internal/challenges"
	"github.com/trentd187/proof/internal/models"
)

func challengeIndex(d *models.AppData, id string) (int, error) {
	i := slices.IndexFunc(d.Challenges, func(c models.Challenge) bool { return c.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("challenge %q: %w", id, ErrNotFound)
	}
	return i, nil
}

// ClaimChallenge marks a challenge as claimed by playerID, optionally linking a
// proof photo that must already be in the feed.
func ClaimChallenge(d *models.AppData, challengeID, playerID string, proofPhotoID *string) (*models.AppData, []Change, error) {
	i, err := challengeIndex(d, challengeID)
	if err != nil {
		return d, nil, err
	}
	if err := requirePlayer(d, playerID); err != nil {
		return d, nil, err
	}
	if proofPhotoID != nil {
		if _, ok := GetPhotoByID(d, *proofPhotoID); !ok {
			return d, nil, fmt.Errorf("proof photo %q: %w", *proofPhotoID, ErrNotFound)
		}
	}

	c, _, err := challenges.Claim(d.Challenges[i], playerID, proofPhotoID)
	if err != nil {
		return d, nil, err
	}
	c.Version++
	next := clone(d)
	next.Challenges = replaceAt(d.Challenges, i, c)
	return next, []Change{upsert(TableChallenges, c.ID, c)}, nil
}

// VerifyChallenge records a witness. When the claim reaches quorum the claimant
// is credited the challenge's points in the same snapshot. A repeat vote from
// the same witness returns d unchanged with no changes.
func VerifyChallenge(d *models.AppData, env Env, challengeID, verifierID string) (*models.AppData, []Change, error) {
	i, err := challengeIndex(d, challengeID)
	if err != nil {
		return d, nil, err
	}
	if err := requirePlayer(d, verifierID); err != nil {
		return d, nil, err
	}

	c, out, err := challenges.Verify(d.Challenges[i], verifierID)
	if err != nil || !out.Changed {
		return d, nil, err
	}
	c.Version++
	next := clone(d)
	next.Challenges = replaceAt(d.Challenges, i, c)
	changes := []Change{upsert(TableChallenges, c.ID, c)}

	if out.Verified {
		// Verified is terminal, so this branch runs at most once per claim.
		if pi := playerIndex(d, *c.ClaimedBy); pi >= 0 {
			p := d.Players[pi]
			p.ChallengePoints += c.Points
			p.Version++
			p.UpdatedAt = env.Now()
			next.Players = replaceAt(d.Players, pi, p)
			changes = append(changes, upsert(TablePlayers, p.ID, p))
		}
	}
	return next, changes, nil
}

// DisputeChallenge records a no-confidence vote. The third distinct dispute
// reopens the challenge.
func DisputeChallenge(d *models.AppData, challengeID, disputerID string) (*models.AppData, []Change, error) {
	i, err := challengeIndex(d, challengeID)
	if err != nil {
		return d, nil, err
	}
	if err := requirePlayer(d, disputerID); err != nil {
		return d, nil, err
	}

	c, out, err := challenges.Dispute(d.Challenges[i], disputerID)
	if err != nil || !out.Changed {
		return d, nil, err
	}
	c.Version++
	next := clone(d)
	next.Challenges = replaceAt(d.Challenges, i, c)
	return next, []Change{upsert(TableChallenges, c.ID, c)}, nil
}
