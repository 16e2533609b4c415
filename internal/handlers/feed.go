package handlers

// feed.go: the photo feed, the group chat and the quote board. All three are
// append-only lists that players react to.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/media"
	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// ReactionRequest is the body for the .../reactions endpoints.
type ReactionRequest struct {
	Reaction string `json:"reaction"` // "fire", "dead", "laugh" or "cap"
}

// GetPhotos handles GET /api/v1/photos, newest first.
// Optional query param: ?type=glory|disaster|lies|life|challenge.
func GetPhotos(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		photos := s.Snapshot().Photos
		if t := models.ProofType(c.Query("type")); t != "" {
			filtered := []models.Photo{}
			for _, p := range photos {
				if p.ProofType == t {
					filtered = append(filtered, p)
				}
			}
			photos = filtered
		}
		return c.JSON(photos)
	}
}

// AddPhoto handles POST /api/v1/photos. The uploader is always the caller.
// When object storage is configured, an inline data URL is uploaded first and
// only its public URL is kept.
func AddPhoto(s *store.Store, uploader *media.Uploader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.PhotoInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		in.UploadedBy = middleware.PlayerID(c)
		in = uploader.PreparePhoto(c.UserContext(), in)

		_, changes, err := s.AddPhoto(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// DeletePhoto handles DELETE /api/v1/photos/:id. Only the uploader may delete.
func DeletePhoto(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, changes, err := s.DeletePhoto(c.UserContext(), c.Params("id"), middleware.PlayerID(c))
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// React returns a handler for POST /api/v1/{photos,messages,quotes}/:id/reactions.
func React(s *store.Store, table trip.Table) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ReactionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		ctx, id := c.UserContext(), c.Params("id")

		var changes []trip.Change
		var err error
		switch table {
		case trip.TablePhotos:
			_, changes, err = s.ReactToPhoto(ctx, id, req.Reaction)
		case trip.TableMessages:
			_, changes, err = s.ReactToMessage(ctx, id, req.Reaction)
		case trip.TableQuotes:
			_, changes, err = s.ReactToQuote(ctx, id, req.Reaction)
		default:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "nothing to react to"})
		}
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// GetMessages handles GET /api/v1/messages, oldest first like a chat log.
func GetMessages(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Snapshot().Messages)
	}
}

// MessageRequest is the body for POST /api/v1/messages.
type MessageRequest struct {
	Content string `json:"content"`
}

// AddMessage handles POST /api/v1/messages as the caller.
func AddMessage(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req MessageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.AddMessage(c.UserContext(), middleware.PlayerID(c), req.Content)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}

// GetQuotes handles GET /api/v1/quotes, newest first.
func GetQuotes(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Snapshot().Quotes)
	}
}

// AddQuote handles POST /api/v1/quotes. saidBy must be one of the players.
func AddQuote(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in trip.QuoteInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.AddQuote(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusCreated, changes)
	}
}
