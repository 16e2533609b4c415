// cmd/server/main.go
// This is the entry point for the PROOF API server.
// In Go, the "main" package and its "main()" function is where the program starts executing.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds executable
// binaries, and internal/ holds reusable packages that are not meant to be imported by other projects.
//
// Startup order matters here:
//  1. the local snapshot is loaded first, so the server always has something to serve
//  2. the remote mirror is optional; if it can't be reached we log it and run offline
//  3. only then do the HTTP routes open
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing: it allows the phones' web app to talk to
	// the API even though they're served from a different origin (host/port)
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"

	// Internal packages: our own code, imported by module path
	"github.com/trentd187/proof/internal/config"
	"github.com/trentd187/proof/internal/database"
	"github.com/trentd187/proof/internal/handlers"
	"github.com/trentd187/proof/internal/hub"
	"github.com/trentd187/proof/internal/localstore"
	"github.com/trentd187/proof/internal/media"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/syncer"
	"github.com/trentd187/proof/internal/trip"
	"github.com/trentd187/proof/internal/weather"
	"github.com/trentd187/proof/pkg/logging"
)

// bodyLimit is large because photos may arrive as inline data URLs.
const bodyLimit = 16 << 20

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	// cfg is a pointer (*Config) containing all runtime settings like port, database URL, etc.
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(os.Getenv("ENV"))
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Env)
	// Load runs before the logger exists, so its fallbacks are reported here.
	for _, w := range cfg.Warnings {
		slog.Warn(w.Msg, "key", w.Key, "value", w.Value, "default", w.Default)
	}

	// ctx is cancelled on Ctrl-C or SIGTERM (what ECS/Docker send on shutdown).
	// Every background goroutine below watches it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Local snapshot ---
	// The SQLite file is this server's equivalent of the phone's local storage:
	// one JSON document holding the whole trip.
	local, err := localstore.New(cfg.SnapshotDBPath, cfg.SnapshotMaxBytes)
	if err != nil {
		slog.Error("failed to open local store", "path", cfg.SnapshotDBPath, "error", err)
		os.Exit(1)
	}
	defer local.Close()

	s := store.New(loadSnapshot(ctx, local), trip.DefaultEnv(), local)

	// --- Remote mirror (optional) ---
	// remote is declared as the interface type and only assigned on success, so a
	// failed connection leaves it truly nil and the shim stays offline.
	var remote syncer.Remote
	if cfg.Online() {
		if m, err := connectRemote(ctx, cfg); err != nil {
			slog.Warn("remote unavailable, running offline", "error", err)
		} else {
			remote = m
		}
	}

	shim := syncer.New(s, remote, cfg.OutboxRetryInterval)
	mode, err := shim.Connect(ctx, cfg.SeedRemote)
	if err != nil {
		slog.Warn("remote sync failed, running offline", "error", err)
	}
	slog.Info("sync mode", "mode", mode)

	if mode == syncer.ModeOnline {
		// Background flushing of the outbox
		go func() {
			if err := shim.Run(ctx); err != nil {
				slog.Error("outbox stopped", "error", err)
			}
		}()

		// Realtime: remote changes made by other servers land here via LISTEN/NOTIFY.
		// After a reconnect we may have missed notifications, so we resync.
		listener := database.NewListener(cfg.DatabaseURL)
		go listener.Run(ctx,
			func(n database.Notification) { shim.HandleNotification(ctx, n) },
			func() {
				if err := shim.Resync(ctx); err != nil {
					slog.Warn("resync after reconnect failed", "error", err)
				}
			},
		)
	}

	// Create the Hub and start it in a goroutine.
	// The Hub manages all live SSE streams: players watching scores and the feed.
	// "go h.Run(ctx)" starts Run() as a goroutine: a lightweight concurrent function
	// that runs in the background without blocking the rest of startup.
	h := hub.New()
	go h.Run(ctx)
	s.Subscribe(h.OnEvent)

	// Weather for the caddie, refreshed on a schedule.
	wx := weather.NewService(weather.NewClient(weather.DefaultBaseURL), cfg.Course.Latitude, cfg.Course.Longitude)
	go func() {
		if err := wx.Run(ctx, cfg.WeatherRefresh); err != nil {
			slog.Error("weather refresh stopped", "error", err)
		}
	}()

	// Photo uploads go to R2 when it's configured; otherwise photos stay inline.
	var uploader *media.Uploader
	if cfg.Media.Enabled() {
		uploader, err = media.NewR2(ctx, cfg.Media)
		if err != nil {
			slog.Warn("object storage unavailable, photos stay inline", "error", err)
			uploader = nil
		}
	}

	// Create a new Fiber app (our HTTP server).
	app := fiber.New(fiber.Config{
		AppName:   "PROOF API",
		BodyLimit: bodyLimit,
	})

	// --- Global middleware ---
	// These run on every request before any route handler.
	// logger.New() logs each HTTP request: method, path, status code, and duration.
	app.Use(logger.New())
	// cors.New() allows requests from any origin. The app is served from wherever
	// the organizer hosts it, so we don't pin a domain.
	app.Use(cors.New())

	handlers.Mount(app, handlers.Deps{
		Config:   cfg,
		Store:    s,
		Sync:     shim,
		Hub:      h,
		Weather:  wx,
		Uploader: uploader,
	})

	// Shut the HTTP server down when ctx is cancelled. Open streams end when the
	// Hub closes their channels.
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	// Start listening for HTTP connections on the configured port.
	// ":" + cfg.Port produces a string like ":8080": listen on all network interfaces.
	slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// loadSnapshot reads the saved trip from the local store. A field that can't be
// decoded keeps its default and everything else is loaded as saved; only an
// unreadable or missing document starts from scratch.
func loadSnapshot(ctx context.Context, local *localstore.Store) *models.AppData {
	doc, found, err := local.Load(ctx)
	if err != nil {
		slog.Warn("failed to read local snapshot, starting fresh", "error", err)
		return trip.Default()
	}
	if !found {
		slog.Info("no local snapshot, starting fresh")
		return trip.Default()
	}
	// Decode always hands back a usable snapshot; the error only lists what was skipped.
	d, err := trip.Decode(doc)
	if err != nil {
		slog.Warn("local snapshot partly unreadable, skipped fields use defaults", "error", err)
	}
	return d
}

// connectRemote opens the database, brings its schema up to date and wraps it
// in a Mirror.
func connectRemote(ctx context.Context, cfg *config.Config) (*database.Mirror, error) {
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	// Run any pending SQL migration files (in the migrations/ directory).
	// Running them on startup ensures the schema is in sync when the server starts.
	if err := database.RunMigrations(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	return database.NewMirror(db), nil
}
