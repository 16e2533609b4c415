package handlers

// stream.go: live updates over Server-Sent Events.
//
// GET /api/v1/stream?topic=scores
//
// The browser opens this with EventSource and gets one "event: <table>" frame
// per change. EventSource can't set headers, so the session token may be sent
// as ?token=... instead (middleware.Auth accepts both).

import (
	"bufio"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/hub"
	"github.com/trentd187/proof/internal/trip"
)

// keepAliveInterval is how often an idle stream gets a comment line so proxies
// don't close it.
const keepAliveInterval = 20 * time.Second

// streamTopics lists the topics a client may follow.
var streamTopics = map[string]bool{
	hub.TopicAll:                  true,
	string(trip.TablePlayers):     true,
	string(trip.TableScores):      true,
	string(trip.TablePhotos):      true,
	string(trip.TableChallenges):  true,
	string(trip.TableBets):        true,
	string(trip.TableMessages):    true,
	string(trip.TableQuotes):      true,
	string(trip.TablePredictions): true,
	string(trip.TableTimeCapsule): true,
	string(trip.TableDocuments):   true,
}

// Stream handles GET /api/v1/stream. topic defaults to "all".
func Stream(h *hub.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		topic := c.Query("topic", hub.TopicAll)
		if !streamTopics[topic] {
			return badRequest(c, "unknown topic")
		}

		client := hub.NewClient(topic)
		if !h.Register(client) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "server is shutting down"})
		}

		// SSE headers
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		// The writer runs after this handler returns, so grab what it needs now.
		done := c.Context().Done()
		log := slog.Default().With("component", "stream", "topic", topic)

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer h.Unregister(client)

			ticker := time.NewTicker(keepAliveInterval)
			defer ticker.Stop()

			// Initial keepalive (comment event) so the browser sees the stream open.
			w.WriteString(":\n\n")
			if err := w.Flush(); err != nil {
				return
			}

			for {
				select {
				case frame, ok := <-client.Send:
					if !ok {
						// The hub dropped us (too slow, or shutting down).
						return
					}
					w.Write(frame)
					if err := w.Flush(); err != nil {
						// Client disconnected
						return
					}

				case <-ticker.C:
					w.WriteString(":\n\n")
					if err := w.Flush(); err != nil {
						return
					}

				case <-done:
					log.Debug("server shutting down, closing stream")
					return
				}
			}
		})
		return nil
	}
}
