package handlers

// picks.go: round predictions and the time capsule.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// GetPredictions handles GET /api/v1/predictions. Optional ?round=2.
func GetPredictions(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		round := c.QueryInt("round", 0)
		out := []models.Prediction{}
		for _, p := range s.Snapshot().Predictions {
			if round == 0 || p.RoundNumber == round {
				out = append(out, p)
			}
		}
		return c.JSON(out)
	}
}

// AddPrediction handles POST /api/v1/predictions. Submitting again for the
// same round overwrites the caller's earlier picks.
func AddPrediction(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.PredictionInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		in.PlayerID = middleware.PlayerID(c)
		_, changes, err := s.AddPrediction(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// CapsuleResponse is what GET /api/v1/capsule returns.
type CapsuleResponse struct {
	Revealed bool                      `json:"revealed"`
	Sealed   int                       `json:"sealed"` // How many players have sealed an entry
	Entries  []models.TimeCapsuleEntry `json:"entries"`
}

// GetCapsule handles GET /api/v1/capsule. Until the reveal, the caller only
// sees their own entry plus a count of everyone else's.
func GetCapsule(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := s.Snapshot()
		return c.JSON(CapsuleResponse{
			Revealed: d.CapsuleRevealed,
			Sealed:   len(d.TimeCapsule),
			Entries:  trip.VisibleCapsule(d, middleware.PlayerID(c)),
		})
	}
}

// AddCapsuleEntry handles POST /api/v1/capsule as the caller.
func AddCapsuleEntry(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.CapsuleInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		in.PlayerID = middleware.PlayerID(c)
		_, changes, err := s.AddTimeCapsuleEntry(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// RevealRequest is the body for PUT /api/v1/capsule/revealed.
type RevealRequest struct {
	Revealed bool `json:"revealed"`
}

// SetCapsuleRevealed handles PUT /api/v1/capsule/revealed (organizer only).
func SetCapsuleRevealed(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RevealRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.SetCapsuleRevealed(c.UserContext(), req.Revealed)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}
