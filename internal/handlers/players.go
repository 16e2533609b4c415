package handlers

// players.go: session creation, the roster and player profiles.

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/config"
	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// SessionRequest is the JSON body for POST /api/v1/session.
type SessionRequest struct {
	PlayerID string `json:"playerId"` // The seat this phone belongs to
}

// SessionResponse carries the signed token the client sends back as "Authorization: Bearer".
type SessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Role      string        `json:"role"`
	Player    models.Player `json:"player"`
}

// CreateSession handles POST /api/v1/session. Picking a seat is the whole
// login: there are twelve known players and no passwords.
func CreateSession(cfg *config.Config, s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SessionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		p, ok := trip.GetPlayerByID(s.Snapshot(), req.PlayerID)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown player"})
		}

		role := middleware.RolePlayer
		if cfg.IsOrganizer(p.ID) {
			role = middleware.RoleOrganizer
		}
		token, expires, err := middleware.IssueToken(cfg.SessionSecret, p.ID, role, cfg.SessionTTL)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(SessionResponse{
			Token: token, ExpiresAt: expires, Role: role, Player: p,
		})
	}
}

// PlayerResponse is a roster entry with its derived display fields.
type PlayerResponse struct {
	models.Player
	DisplayName   string `json:"displayName"`
	HandicapLabel string `json:"handicapLabel"`
}

func playerResponse(p models.Player) PlayerResponse {
	return PlayerResponse{Player: p, DisplayName: p.DisplayName(), HandicapLabel: models.HandicapLabel(p.Handicap)}
}

// GetPlayers handles GET /api/v1/players. It's public so a phone can show the
// seat picker before it has a session.
func GetPlayers(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := s.Snapshot()
		out := make([]PlayerResponse, len(d.Players))
		for i, p := range d.Players {
			out[i] = playerResponse(p)
		}
		return c.JSON(out)
	}
}

// GetPlayer handles GET /api/v1/players/:id: the profile plus the player's cards.
func GetPlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := s.Snapshot()
		p, ok := trip.GetPlayerByID(d, c.Params("id"))
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		scores := trip.GetPlayerScores(d, p.ID)
		if scores == nil {
			scores = []models.Score{}
		}
		return c.JSON(fiber.Map{"player": playerResponse(p), "scores": scores})
	}
}

// UpdatePlayer handles PATCH /api/v1/players/:id. Players edit their own
// profile; organizers may edit anyone's.
func UpdatePlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id != middleware.PlayerID(c) && !isOrganizer(c) {
			return forbidden(c, "you can only edit your own profile")
		}
		var u trip.PlayerUpdate
		if err := c.BodyParser(&u); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.UpdatePlayer(c.UserContext(), id, u)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// PredictionPointsRequest is the body for POST /api/v1/players/:id/prediction-points.
type PredictionPointsRequest struct {
	Points int `json:"points"`
}

// AwardPredictionPoints handles POST /api/v1/players/:id/prediction-points
// (organizer only): credit a correct prediction.
func AwardPredictionPoints(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PredictionPointsRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.AwardPredictionPoints(c.UserContext(), c.Params("id"), req.Points)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// GetSnapshot handles GET /api/v1/snapshot: the whole trip in one document, as
// the client would otherwise load from local storage. Time capsule entries
// other than the viewer's stay hidden until the capsule is revealed.
func GetSnapshot(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := s.Snapshot()
		view := *d
		view.TimeCapsule = trip.VisibleCapsule(d, middleware.PlayerID(c))
		return c.JSON(&view)
	}
}
