// Package handlers contains the HTTP route handler functions for the PROOF API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, running it against the store, and writing a response.
//
// Every exported function follows the "handler factory" pattern: it takes the
// dependencies it needs (usually the *store.Store) and returns a fiber.Handler.
// This lets us inject them without global variables.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/hub"
	"github.com/trentd187/proof/internal/syncer"
)

// HealthCheck handles GET /health.
// It returns a simple JSON response indicating the server is alive and reachable.
// This endpoint is intentionally lightweight: no remote calls, no authentication.
// The server is healthy while offline too, so it doesn't depend on sync mode.
func HealthCheck(c *fiber.Ctx) error {
	// fiber.Map is just a shorthand for map[string]interface{}.
	return c.JSON(fiber.Map{"status": "ok"})
}

// SyncResponse is the body of GET /api/v1/sync.
type SyncResponse struct {
	syncer.Status
	Streams int `json:"streams"` // Live event streams currently connected
}

// SyncStatus handles GET /api/v1/sync: online/offline mode, how many writes are
// still waiting for the remote, the last remote error, and how many live
// streams are open.
func SyncStatus(sh *syncer.Shim, h *hub.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(SyncResponse{Status: sh.Status(), Streams: h.ClientCount()})
	}
}
