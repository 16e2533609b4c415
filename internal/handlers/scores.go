package handlers

// scores.go: scorecards, the leaderboard and the awards page.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/leaderboard"
	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// GetScores handles GET /api/v1/scores.
// Optional query params: ?player=player-3 and/or ?round=2.
func GetScores(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := s.Snapshot()
		playerID := c.Query("player")
		round := c.QueryInt("round", 0)

		var scores []models.Score
		switch {
		case playerID != "":
			scores = trip.GetPlayerScores(d, playerID)
		case round != 0:
			scores = trip.GetRoundScores(d, round)
		default:
			scores = d.Scores
		}
		// Both filters: narrow the player's cards to the round.
		if playerID != "" && round != 0 {
			var narrowed []models.Score
			for _, sc := range scores {
				if sc.RoundNumber == round {
					narrowed = append(narrowed, sc)
				}
			}
			scores = narrowed
		}
		if scores == nil {
			scores = []models.Score{}
		}
		return c.JSON(scores)
	}
}

// AddScore handles POST /api/v1/scores. Any player may keep score for anyone
// in their foursome; playerId defaults to the caller. Posting again for the
// same player and round replaces that card.
//
// Full card: {"roundNumber": 1, "holeScores": [4,5,3,...]}
// Quick entry: {"roundNumber": 1, "quick": {"front": 42, "back": 44}}
func AddScore(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.ScoreInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		if in.PlayerID == "" {
			in.PlayerID = middleware.PlayerID(c)
		}
		_, changes, err := s.AddScore(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// GetLeaderboard handles GET /api/v1/leaderboard.
func GetLeaderboard(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(leaderboard.Compute(s.Snapshot()))
	}
}

// GetAwards handles GET /api/v1/awards. Awards whose condition isn't met yet
// are simply absent.
func GetAwards(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		awards := leaderboard.Awards(s.Snapshot())
		if awards == nil {
			awards = []leaderboard.Award{}
		}
		return c.JSON(awards)
	}
}

// GetShame handles GET /api/v1/shame: the Wall of Shame.
func GetShame(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		wall := leaderboard.Shame(s.Snapshot())
		if wall == nil {
			wall = []leaderboard.ShameEntry{}
		}
		return c.JSON(wall)
	}
}

// GetPoints handles GET /api/v1/points?by=challenge|prediction. The default
// board is challenge points.
func GetPoints(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := leaderboard.ParsePointsKind(c.Query("by", string(leaderboard.ByChallenge)))
		if err != nil {
			return badRequest(c, err.Error())
		}
		return c.JSON(leaderboard.Points(s.Snapshot(), kind))
	}
}
