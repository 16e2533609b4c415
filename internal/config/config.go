// Package config handles loading runtime configuration for the PROOF API.
// Every setting comes from an environment variable (optionally seeded from a .env
// file) so the same binary runs on a laptop during the trip planning and on a
// hosted box during the trip itself. Only SESSION_SECRET is mandatory, and only
// outside development; everything else has a default that works offline.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	// Real environment variables win: godotenv.Load never overwrites a variable that is already set.
	"github.com/joho/godotenv"
)

// devSessionSecret is only accepted when Env is "development".
const devSessionSecret = "proof-dev-secret-do-not-use"

// ErrMissingSessionSecret is returned by Load outside development when SESSION_SECRET is unset.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required outside development")

// Config holds all runtime configuration values for the application.
type Config struct {
	Port string // TCP port for the HTTP server
	Env  string // "development", "staging" or "production"

	// Local persistence
	SnapshotDBPath   string // SQLite file holding the snapshot document
	SnapshotMaxBytes int    // Largest document the local store accepts before reporting a quota error; 0 = no cap

	// Remote mirror. An empty DatabaseURL means the server runs offline.
	DatabaseURL         string
	MigrationsPath      string        // golang-migrate source URL, e.g. "file://migrations"
	SeedRemote          bool          // Write the local snapshot into an empty remote and go online
	OutboxRetryInterval time.Duration // How often failed remote writes are retried

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	OrganizerIDs  []string // Player ids that get the organizer role

	Course         Course
	WeatherRefresh time.Duration

	Media Media

	// Warnings lists settings that were set but unusable, in the order they were
	// read. Load runs before logging is configured, so main logs these afterwards.
	Warnings []Warning
}

// Warning describes one setting that fell back to its default.
type Warning struct {
	Msg     string
	Key     string
	Value   string
	Default any
}

// Course locates the golf course for the weather lookup and altitude adjustment.
type Course struct {
	Name        string
	Latitude    float64
	Longitude   float64
	ElevationFt float64
}

// Media holds the Cloudflare R2 (S3-compatible) settings for photo uploads.
// When any of the credentials is missing, photos keep their inline payloads.
type Media struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	CDNBaseURL      string // Public base URL the bucket is served from
}

// Enabled reports whether object storage is fully configured.
func (m Media) Enabled() bool {
	return m.AccountID != "" && m.AccessKeyID != "" && m.AccessKeySecret != "" && m.BucketName != ""
}

// Online reports whether a remote database is configured at all.
func (c *Config) Online() bool {
	return c.DatabaseURL != ""
}

// Load reads configuration from the environment. A malformed number or duration
// is replaced with its default and recorded in Warnings rather than stopping
// the server.
func Load() (*Config, error) {
	// The error is ignored on purpose: a missing .env is normal in production.
	_ = godotenv.Load()

	var l loader
	cfg := &Config{
		Port:                l.getString("PORT", "8080"),
		Env:                 l.getString("ENV", "development"),
		SnapshotDBPath:      l.getString("SNAPSHOT_DB_PATH", "./data/proof.db"),
		SnapshotMaxBytes:    l.getInt("SNAPSHOT_MAX_BYTES", 5<<20),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		MigrationsPath:      l.getString("MIGRATIONS_PATH", "file://migrations"),
		SeedRemote:          l.getBool("SEED_REMOTE", false),
		OutboxRetryInterval: l.getDuration("OUTBOX_RETRY_INTERVAL", 15*time.Second),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		SessionTTL:          l.getDuration("SESSION_TTL", 96*time.Hour),
		OrganizerIDs:        l.getList("ORGANIZER_IDS", []string{"player-1"}),
		Course: Course{
			Name:        l.getString("COURSE_NAME", "Hot Springs Village, AR"),
			Latitude:    l.getFloat("COURSE_LAT", 34.6656),
			Longitude:   l.getFloat("COURSE_LON", -93.0535),
			ElevationFt: l.getFloat("COURSE_ELEVATION_FT", 800),
		},
		WeatherRefresh: l.getDuration("WEATHER_REFRESH", 30*time.Minute),
		Media: Media{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			BucketName:      os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},
	}

	if cfg.SessionSecret == "" {
		if cfg.Env != "development" {
			return nil, ErrMissingSessionSecret
		}
		l.warn("SESSION_SECRET not set, using the development secret", "SESSION_SECRET", "", nil)
		cfg.SessionSecret = devSessionSecret
	}
	cfg.Warnings = l.warnings
	return cfg, nil
}

// IsOrganizer reports whether playerID has organizer rights.
func (c *Config) IsOrganizer(playerID string) bool {
	for _, id := range c.OrganizerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// loader reads typed values from the environment and remembers every value
// it had to replace with a default.
type loader struct {
	warnings []Warning
}

func (l *loader) warn(msg, key, value string, fallback any) {
	l.warnings = append(l.warnings, Warning{Msg: msg, Key: key, Value: value, Default: fallback})
}

func (l *loader) getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (l *loader) getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		l.warn("invalid integer, using default", key, v, fallback)
		return fallback
	}
	return n
}

func (l *loader) getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.warn("invalid number, using default", key, v, fallback)
		return fallback
	}
	return f
}

func (l *loader) getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.warn("invalid boolean, using default", key, v, fallback)
		return fallback
	}
	return b
}

func (l *loader) getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		l.warn("invalid duration, using default", key, v, fallback)
		return fallback
	}
	return d
}

// getList splits a comma-separated value, dropping blanks.
func (l *loader) getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
