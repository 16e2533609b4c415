package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/trip"
)

// statusFor maps a mutator error to an HTTP status. Anything unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, trip.ErrInvalidInput),
		errors.Is(err, trip.ErrUnknownReaction),
		errors.Is(err, trip.ErrWinnerNotInvolved):
		return fiber.StatusBadRequest
	case errors.Is(err, trip.ErrNotOwner),
		errors.Is(err, trip.ErrSelfVerify),
		errors.Is(err, trip.ErrSelfDispute):
		return fiber.StatusForbidden
	case errors.Is(err, trip.ErrAlreadyClaimed),
		errors.Is(err, trip.ErrNotClaimed),
		errors.Is(err, trip.ErrChallengeVerified),
		errors.Is(err, trip.ErrBetSettled):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a JSON error body. Rejections carry their message so the
// client can show it; unexpected errors are logged and hidden.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg})
}

// changed is the response to every mutation: the records it wrote. A no-op
// (a repeated vote, say) answers with an empty list.
func changed(c *fiber.Ctx, status int, changes []trip.Change) error {
	if changes == nil {
		changes = []trip.Change{}
	}
	return c.Status(status).JSON(fiber.Map{"changes": changes})
}

func isOrganizer(c *fiber.Ctx) bool {
	role, _ := c.Locals(middleware.LocalPlayerRole).(string)
	return role == middleware.RoleOrganizer
}
