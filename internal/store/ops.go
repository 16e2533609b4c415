package store

import (
	"context"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// One method per state transition. Each binds the store's Env and runs the
// matching trip mutator through Apply.

func (s *Store) UpdatePlayer(ctx context.Context, playerID string, u trip.PlayerUpdate) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.UpdatePlayer(d, s.env, playerID, u)
	})
}

func (s *Store) AwardPredictionPoints(ctx context.Context, playerID string, points int) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AwardPredictionPoints(d, s.env, playerID, points)
	})
}

func (s *Store) AddScore(ctx context.Context, in trip.ScoreInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddScore(d, s.env, in)
	})
}

func (s *Store) AddPhoto(ctx context.Context, in trip.PhotoInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddPhoto(d, s.env, in)
	})
}

func (s *Store) DeletePhoto(ctx context.Context, photoID, requesterID string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.DeletePhoto(d, photoID, requesterID)
	})
}

func (s *Store) ReactToPhoto(ctx context.Context, photoID, reaction string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.ReactToPhoto(d, photoID, reaction)
	})
}

func (s *Store) ClaimChallenge(ctx context.Context, challengeID, playerID string, proofPhotoID *string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.ClaimChallenge(d, challengeID, playerID, proofPhotoID)
	})
}

func (s *Store) VerifyChallenge(ctx context.Context, challengeID, verifierID string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.VerifyChallenge(d, s.env, challengeID, verifierID)
	})
}

func (s *Store) DisputeChallenge(ctx context.Context, challengeID, disputerID string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.DisputeChallenge(d, challengeID, disputerID)
	})
}

func (s *Store) AddBet(ctx context.Context, in trip.BetInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddBet(d, s.env, in)
	})
}

func (s *Store) SettleBet(ctx context.Context, betID, winnerID string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.SettleBet(d, betID, winnerID)
	})
}

func (s *Store) AddMessage(ctx context.Context, playerID, content string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddMessage(d, s.env, playerID, content)
	})
}

func (s *Store) ReactToMessage(ctx context.Context, messageID, reaction string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.ReactToMessage(d, messageID, reaction)
	})
}

func (s *Store) AddQuote(ctx context.Context, in trip.QuoteInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddQuote(d, s.env, in)
	})
}

func (s *Store) ReactToQuote(ctx context.Context, quoteID, reaction string) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.ReactToQuote(d, quoteID, reaction)
	})
}

func (s *Store) AddPrediction(ctx context.Context, in trip.PredictionInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddPrediction(d, s.env, in)
	})
}

func (s *Store) AddTimeCapsuleEntry(ctx context.Context, in trip.CapsuleInput) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.AddTimeCapsuleEntry(d, s.env, in)
	})
}

func (s *Store) SetCapsuleRevealed(ctx context.Context, revealed bool) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.SetCapsuleRevealed(d, revealed)
	})
}

func (s *Store) UpdateFoursomes(ctx context.Context, f models.Foursomes) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.UpdateFoursomes(d, f)
	})
}

func (s *Store) UpdateItineraryNotes(ctx context.Context, n models.ItineraryNotes) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.UpdateItineraryNotes(d, n)
	})
}

func (s *Store) UpdateTripInfo(ctx context.Context, t models.TripInfo) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		return trip.UpdateTripInfo(d, t)
	})
}

// Reset replaces everything with the default snapshot.
func (s *Store) Reset(ctx context.Context) (*models.AppData, []trip.Change, error) {
	return s.Apply(ctx, func(d *models.AppData) (*models.AppData, []trip.Change, error) {
		next, changes := trip.Reset(d)
		return next, changes, nil
	})
}
