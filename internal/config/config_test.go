package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "SNAPSHOT_DB_PATH", "SNAPSHOT_MAX_BYTES", "DATABASE_URL", "SEED_REMOTE",
		"OUTBOX_RETRY_INTERVAL", "SESSION_SECRET", "SESSION_TTL", "ORGANIZER_IDS", "COURSE_LAT",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_ACCESS_KEY_SECRET", "R2_BUCKET_NAME",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" {
		t.Errorf("port=%q env=%q", cfg.Port, cfg.Env)
	}
	if cfg.SnapshotMaxBytes != 5<<20 {
		t.Errorf("SnapshotMaxBytes = %d", cfg.SnapshotMaxBytes)
	}
	if cfg.Online() {
		t.Error("no DATABASE_URL should mean offline")
	}
	if cfg.SessionSecret != devSessionSecret {
		t.Error("development should fall back to the dev secret")
	}
	if !cfg.IsOrganizer("player-1") || cfg.IsOrganizer("player-2") {
		t.Errorf("organizers = %v", cfg.OrganizerIDs)
	}
	if cfg.Media.Enabled() {
		t.Error("media should be disabled without R2 settings")
	}
	if cfg.Course.Latitude != 34.6656 {
		t.Errorf("course latitude = %v", cfg.Course.Latitude)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/proof")
	t.Setenv("OUTBOX_RETRY_INTERVAL", "1m")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("ORGANIZER_IDS", "player-2, player-5,,")
	t.Setenv("SEED_REMOTE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Online() || !cfg.SeedRemote {
		t.Error("expected online with seeding")
	}
	if cfg.OutboxRetryInterval != time.Minute {
		t.Errorf("OutboxRetryInterval = %v", cfg.OutboxRetryInterval)
	}
	if cfg.SessionTTL != 96*time.Hour {
		t.Errorf("malformed SESSION_TTL should fall back, got %v", cfg.SessionTTL)
	}
	if len(cfg.OrganizerIDs) != 2 || !cfg.IsOrganizer("player-5") {
		t.Errorf("organizers = %v", cfg.OrganizerIDs)
	}
	if len(cfg.Warnings) != 1 || cfg.Warnings[0].Key != "SESSION_TTL" || cfg.Warnings[0].Value != "forever" {
		t.Errorf("warnings = %+v, want one for SESSION_TTL", cfg.Warnings)
	}
}

func TestSnapshotMaxBytes(t *testing.T) {
	tests := []struct {
		value    string
		want     int
		wantWarn bool
	}{
		{"", 5 << 20, false},
		{"1024", 1024, false},
		{"0", 0, false}, // no cap
		{"-1", 5 << 20, true},
		{"lots", 5 << 20, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ENV", "development")
			t.Setenv("SESSION_SECRET", "s3cret")
			t.Setenv("SNAPSHOT_MAX_BYTES", tt.value)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.SnapshotMaxBytes != tt.want {
				t.Errorf("SnapshotMaxBytes = %d, want %d", cfg.SnapshotMaxBytes, tt.want)
			}
			warned := false
			for _, w := range cfg.Warnings {
				if w.Key == "SNAPSHOT_MAX_BYTES" {
					warned = true
				}
			}
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v", warned, tt.wantWarn)
			}
		})
	}
}

func TestLoadWarnsAboutDevSecret(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SESSION_SECRET", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	found := false
	for _, w := range cfg.Warnings {
		if w.Key == "SESSION_SECRET" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %+v, want one for SESSION_SECRET", cfg.Warnings)
	}
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	if _, err := Load(); !errors.Is(err, ErrMissingSessionSecret) {
		t.Errorf("err = %v, want ErrMissingSessionSecret", err)
	}
}
