package handlers

// schedule.go: rounds, pairings, the itinerary and the house info card.
// Everything here is read by all players and written by organizers only;
// the organizer check happens in the router with middleware.RequireRole.

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
)

// ScheduleResponse pairs the fixed round list with the current foursomes.
type ScheduleResponse struct {
	Rounds    []models.Round   `json:"rounds"`
	Foursomes models.Foursomes `json:"foursomes"`
}

// GetSchedule handles GET /api/v1/schedule.
func GetSchedule(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(ScheduleResponse{Rounds: models.Rounds, Foursomes: s.Snapshot().Foursomes})
	}
}

// UpdateFoursomes handles PUT /api/v1/schedule/foursomes. Each round must be a
// full split of the roster: every player in exactly one group.
func UpdateFoursomes(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f models.Foursomes
		if err := c.BodyParser(&f); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.UpdateFoursomes(c.UserContext(), f)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// GetItinerary handles GET /api/v1/itinerary.
func GetItinerary(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Snapshot().ItineraryNotes)
	}
}

// UpdateItinerary handles PUT /api/v1/itinerary. The body replaces all five days.
func UpdateItinerary(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.ItineraryNotes
		if err := c.BodyParser(&n); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.UpdateItineraryNotes(c.UserContext(), n)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// GetTripInfo handles GET /api/v1/trip-info.
func GetTripInfo(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(s.Snapshot().TripInfo)
	}
}

// UpdateTripInfo handles PUT /api/v1/trip-info.
func UpdateTripInfo(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var t models.TripInfo
		if err := c.BodyParser(&t); err != nil {
			return badRequest(c, "invalid request body")
		}
		_, changes, err := s.UpdateTripInfo(c.UserContext(), t)
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}

// Reset handles POST /api/v1/reset: wipe the trip back to its starting state.
// There is no undo.
func Reset(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, changes, err := s.Reset(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return changed(c, fiber.StatusOK, changes)
	}
}
