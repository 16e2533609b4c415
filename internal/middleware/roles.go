package middleware

// roles.go: role-based access control middleware.
// The app has two roles: organizer and player. Organizer-only routes (reset,
// schedule edits, revealing the time capsule) are wrapped with RequireRole.

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only players whose role
// matches one of the provided roles. Returns HTTP 403 Forbidden if the role
// doesn't match.
//
//	api.Post("/reset", middleware.RequireRole(middleware.RoleOrganizer), handlers.Reset(s))
//
// RequireRole must be used AFTER the Auth middleware, because Auth is what
// populates the role in the request context via c.Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalPlayerRole).(string)
		if !ok || role == "" {
			// No role means Auth didn't run for this route.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
