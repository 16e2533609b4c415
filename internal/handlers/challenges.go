package handlers

// challenges.go: the challenge board and side bets.
//
// A challenge goes open → claimed → verified. Two other players have to vouch
// for a claim before the points land; three disputes send it back to open.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// GetChallenges handles GET /api/v1/challenges in catalog order.
// Optional query params: ?category=golf and ?status=claimed.
func GetChallenges(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := models.ChallengeCategory(c.Query("category"))
		status := models.ChallengeStatus(c.Query("status"))

		out := []models.Challenge{}
		for _, ch := range s.Snapshot().Challenges {
			if category != "" && ch.Category != category {
				continue
			}
			if status != "" && ch.Status != status {
				continue
			}
			out = append(out, ch)
		}
		return c.JSON(out)
	}
}

// GetChallenge handles GET /api/v1/challenges/:id.
func GetChallenge(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ch, ok := trip.GetChallengeByID(s.Snapshot(), c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "challenge not found"})
		}
		return c.JSON(ch)
	}
}

// ClaimRequest is the optional body for POST /api/v1/challenges/:id/claim.
type ClaimRequest struct {
	ProofPhotoID *string `json:"proofPhotoId"`
}

// ClaimChallenge handles POST /api/v1/challenges/:id/claim as the caller.
func ClaimChallenge(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ClaimRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "invalid request body")
			}
		}
		_, changes, err := s.ClaimChallenge(c.UserContext(), c.Params("id"), middleware.PlayerID(c), req.ProofPhotoID)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// VerifyChallenge handles POST /api/v1/challenges/:id/verify as the caller.
// Vouching twice is not an error; the second vote just changes nothing.
func VerifyChallenge(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, changes, err := s.VerifyChallenge(c.UserContext(), c.Params("id"), middleware.PlayerID(c))
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// DisputeChallenge handles POST /api/v1/challenges/:id/dispute as the caller.
func DisputeChallenge(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, changes, err := s.DisputeChallenge(c.UserContext(), c.Params("id"), middleware.PlayerID(c))
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// GetBets handles GET /api/v1/bets, newest first. Optional ?status=open|settled.
func GetBets(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := models.BetStatus(c.Query("status"))
		out := []models.Bet{}
		for _, b := range s.Snapshot().Bets {
			if status == "" || b.Status == status {
				out = append(out, b)
			}
		}
		return c.JSON(out)
	}
}

// GetBet handles GET /api/v1/bets/:id.
func GetBet(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		b, ok := trip.GetBetByID(s.Snapshot(), c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "bet not found"})
		}
		return c.JSON(b)
	}
}

// AddBet handles POST /api/v1/bets. The caller is recorded as the creator.
func AddBet(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.BetInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		in.CreatedBy = middleware.PlayerID(c)
		_, changes, err := s.AddBet(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// SettleRequest is the body for POST /api/v1/bets/:id/settle.
type SettleRequest struct {
	WinnerID string `json:"winnerId"`
}

// SettleBet handles POST /api/v1/bets/:id/settle. Settling is final.
func SettleBet(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SettleRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.SettleBet(c.UserContext(), c.Params("id"), req.WinnerID)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}
