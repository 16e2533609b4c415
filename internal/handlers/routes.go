package handlers

import (
	"github.com/gofiber/fiber/v2"
	// adaptor wraps a standard net/http handler so Fiber can serve it
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trentd187/proof/internal/config"
	"github.com/trentd187/proof/internal/hub"
	"github.com/trentd187/proof/internal/media"
	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/syncer"
	"github.com/trentd187/proof/internal/trip"
	"github.com/trentd187/proof/internal/weather"
)

// Deps bundles everything the route handlers need. Uploader may be nil, in
// which case photos keep their inline payloads.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Sync     *syncer.Shim
	Hub      *hub.Hub
	Weather  *weather.Service
	Uploader *media.Uploader
}

// Mount registers every route on app.
func Mount(app *fiber.App, d Deps) {
	s := d.Store

	// --- Public routes (no session required) ---
	// These are registered before the /api/v1 group below, so the group's Auth
	// middleware never runs for them.
	app.Get("/health", HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Post("/api/v1/session", CreateSession(d.Config, s))
	app.Get("/api/v1/players", GetPlayers(s))

	// --- Authenticated API routes ---
	// A session is only valid while its player still has a seat on the roster.
	isPlayer := func(id string) bool {
		_, ok := trip.GetPlayerByID(s.Snapshot(), id)
		return ok
	}
	api := app.Group("/api/v1", middleware.Auth(d.Config.SessionSecret, isPlayer))
	organizer := middleware.RequireRole(middleware.RoleOrganizer)

	api.Get("/snapshot", GetSnapshot(s))
	api.Get("/sync", SyncStatus(d.Sync, d.Hub))
	api.Get("/stream", Stream(d.Hub))

	// Players
	api.Get("/players/:id", GetPlayer(s))
	api.Patch("/players/:id", UpdatePlayer(s))
	api.Post("/players/:id/prediction-points", organizer, AwardPredictionPoints(s))

	// Scores
	api.Get("/scores", GetScores(s))
	api.Post("/scores", AddScore(s))
	api.Get("/leaderboard", GetLeaderboard(s))
	api.Get("/awards", GetAwards(s))
	api.Get("/shame", GetShame(s))
	api.Get("/points", GetPoints(s))

	// Photos
	api.Get("/photos", GetPhotos(s))
	api.Post("/photos", AddPhoto(s, d.Uploader))
	api.Delete("/photos/:id", DeletePhoto(s))
	api.Post("/photos/:id/reactions", React(s, trip.TablePhotos))

	// Challenges
	api.Get("/challenges", GetChallenges(s))
	api.Get("/challenges/:id", GetChallenge(s))
	api.Post("/challenges/:id/claim", ClaimChallenge(s))
	api.Post("/challenges/:id/verify", VerifyChallenge(s))
	api.Post("/challenges/:id/dispute", DisputeChallenge(s))

	// Bets
	api.Get("/bets", GetBets(s))
	api.Post("/bets", AddBet(s))
	api.Get("/bets/:id", GetBet(s))
	api.Post("/bets/:id/settle", SettleBet(s))

	// Chat and quotes
	api.Get("/messages", GetMessages(s))
	api.Post("/messages", AddMessage(s))
	api.Post("/messages/:id/reactions", React(s, trip.TableMessages))
	api.Get("/quotes", GetQuotes(s))
	api.Post("/quotes", AddQuote(s))
	api.Post("/quotes/:id/reactions", React(s, trip.TableQuotes))

	// Predictions and the time capsule
	api.Get("/predictions", GetPredictions(s))
	api.Post("/predictions", AddPrediction(s))
	api.Get("/capsule", GetCapsule(s))
	api.Post("/capsule", AddCapsuleEntry(s))
	api.Put("/capsule/revealed", organizer, SetCapsuleRevealed(s))

	// Schedule and logistics
	api.Get("/schedule", GetSchedule(s))
	api.Put("/schedule/foursomes", organizer, UpdateFoursomes(s))
	api.Get("/itinerary", GetItinerary(s))
	api.Put("/itinerary", organizer, UpdateItinerary(s))
	api.Get("/trip-info", GetTripInfo(s))
	api.Put("/trip-info", organizer, UpdateTripInfo(s))
	api.Post("/reset", organizer, Reset(s))

	// Caddie
	api.Get("/caddie", GetCaddie(d.Weather, d.Config.Course.ElevationFt))
}
