package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/trentd187/proof/internal/trip"
)

// Channel is the Postgres NOTIFY channel the row triggers publish on
// (see migrations/000001_initial_schema.up.sql).
const Channel = "proof_changes"

// Notification is the JSON payload the trigger sends: which table, which
// operation (INSERT, UPDATE or DELETE) and the row id. Row contents are not
// included because NOTIFY payloads are capped at 8000 bytes and a photo row can
// be far larger; the receiver fetches the row itself.
type Notification struct {
	Table trip.Table `json:"table"`
	Type  string     `json:"type"`
	ID    string     `json:"id"`
}

// IsDelete reports whether the row was removed.
func (n Notification) IsDelete() bool { return n.Type == "DELETE" }

// ParseNotification decodes a trigger payload.
func ParseNotification(payload string) (Notification, error) {
	var n Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return n, fmt.Errorf("decode notification: %w", err)
	}
	if n.Table == "" || n.ID == "" {
		return n, fmt.Errorf("notification missing table or id: %q", payload)
	}
	return n, nil
}

// Listener holds a dedicated pgx connection subscribed to Channel. GORM's
// pooled connections can't be used for LISTEN, because a notification is only
// delivered to the session that issued the LISTEN.
type Listener struct {
	dsn string
	log *slog.Logger

	// Backoff bounds between reconnect attempts.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

// NewListener creates a listener for the database at dsn.
func NewListener(dsn string) *Listener {
	return &Listener{
		dsn:        dsn,
		log:        slog.Default().With("component", "listener"),
		MinBackoff: time.Second,
		MaxBackoff: 30 * time.Second,
	}
}

// Run listens until ctx is cancelled, calling handle for each notification in
// the order they arrive. A dropped connection is re-established with
// exponential backoff; onReconnect (if set) is called after every successful
// LISTEN past the first so the caller can resynchronize anything it missed.
func (l *Listener) Run(ctx context.Context, handle func(Notification), onReconnect func()) {
	backoff := l.MinBackoff
	connected := false
	for {
		err := l.listen(ctx, handle, func() {
			if connected && onReconnect != nil {
				onReconnect()
			}
			connected = true
			backoff = l.MinBackoff
		})
		if ctx.Err() != nil {
			return
		}
		l.log.Warn("realtime connection lost", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, l.MaxBackoff)
	}
}

// listen runs one connection's lifetime and returns when it fails.
func (l *Listener) listen(ctx context.Context, handle func(Notification), ready func()) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		// Use a fresh context: ctx may already be cancelled.
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info("listening for remote changes", "channel", Channel)
	ready()

	for {
		msg, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		n, err := ParseNotification(msg.Payload)
		if err != nil {
			l.log.Warn("skipping malformed notification", "error", err)
			continue
		}
		handle(n)
	}
}
