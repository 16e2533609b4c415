// Package syncer keeps the store and the remote mirror in step.
//
// It decides at startup whether the session runs online or offline, queues
// every local change in an outbox that is flushed to the remote in the
// background, and folds change notifications from the remote back into the
// store. Local state is never rolled back because of a remote failure: the
// outbox just keeps the change and tries again later.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/trentd187/proof/internal/database"
	"github.com/trentd187/proof/internal/metrics"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

// Remote is the part of database.Mirror the shim needs. Tests swap in a fake.
type Remote interface {
	IsEmpty(ctx context.Context) (bool, error)
	LoadSnapshot(ctx context.Context) (*models.AppData, error)
	Seed(ctx context.Context, d *models.AppData) error
	Apply(ctx context.Context, c trip.Change) error
	Fetch(ctx context.Context, table trip.Table, id string) (trip.Change, error)
}

var _ Remote = (*database.Mirror)(nil)

// Mode is whether the remote mirror is in use for this session.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// writeTimeout bounds a single remote write during a flush.
const writeTimeout = 10 * time.Second

// Status is what GET /api/v1/sync reports.
type Status struct {
	Mode      Mode       `json:"mode"`
	Pending   int        `json:"pending"`
	LastError string     `json:"lastError,omitempty"`
	LastFlush *time.Time `json:"lastFlush,omitempty"`
}

// outboxKey coalesces repeated writes to the same record: only the latest
// value of a record needs to reach the remote.
type outboxKey struct {
	table trip.Table
	id    string
}

type outboxEntry struct {
	change trip.Change
	seq    uint64 // Bumped every time the entry is overwritten
}

// Shim is the synchronization layer between store.Store and the remote.
type Shim struct {
	store         *store.Store
	remote        Remote
	retryInterval time.Duration
	log           *slog.Logger

	mu        sync.Mutex
	mode      Mode
	order     []outboxKey // Flush order: first enqueue time of each key
	outbox    map[outboxKey]outboxEntry
	seq       uint64
	lastErr   string
	lastFlush time.Time

	// kick wakes the flush loop. Buffered so a send never blocks the store.
	kick chan struct{}
}

// New creates a shim in offline mode and subscribes it to the store. remote
// may be nil when no remote is configured; the shim then stays offline.
func New(s *store.Store, remote Remote, retryInterval time.Duration) *Shim {
	sh := &Shim{
		store:         s,
		remote:        remote,
		retryInterval: retryInterval,
		log:           slog.Default().With("component", "syncer"),
		mode:          ModeOffline,
		outbox:        make(map[outboxKey]outboxEntry),
		kick:          make(chan struct{}, 1),
	}
	metrics.SetOnline(false)
	s.Subscribe(sh.onEvent)
	return sh
}

// Connect runs the startup decision:
//   - no remote: stay offline
//   - remote empty: seed it from the local snapshot if seed is set, otherwise
//     stay offline
//   - remote has data: it replaces the local snapshot and the shim goes online
//
// Any remote failure leaves the shim offline for the rest of the session and is
// returned so the caller can log it; the server keeps running either way.
func (sh *Shim) Connect(ctx context.Context, seed bool) (Mode, error) {
	if sh.remote == nil {
		return ModeOffline, nil
	}

	empty, err := sh.remote.IsEmpty(ctx)
	if err != nil {
		return sh.stayOffline(fmt.Errorf("check remote: %w", err))
	}

	if empty {
		if !seed {
			sh.log.Info("remote is empty and seeding is off, running offline")
			return ModeOffline, nil
		}
		if err := sh.remote.Seed(ctx, sh.store.Snapshot()); err != nil {
			return sh.stayOffline(fmt.Errorf("seed remote: %w", err))
		}
		sh.log.Info("seeded empty remote from local snapshot")
		sh.setOnline()
		return ModeOnline, nil
	}

	d, err := sh.remote.LoadSnapshot(ctx)
	if err != nil {
		return sh.stayOffline(fmt.Errorf("load remote snapshot: %w", err))
	}
	// Replace publishes a Remote event, which onEvent ignores, and persists the
	// loaded snapshot locally.
	sh.store.Replace(ctx, d)
	sh.setOnline()
	sh.log.Info("loaded snapshot from remote", "players", len(d.Players), "scores", len(d.Scores), "photos", len(d.Photos))
	return ModeOnline, nil
}

func (sh *Shim) stayOffline(err error) (Mode, error) {
	sh.mu.Lock()
	sh.lastErr = err.Error()
	sh.mu.Unlock()
	return ModeOffline, err
}

func (sh *Shim) setOnline() {
	sh.mu.Lock()
	sh.mode = ModeOnline
	sh.mu.Unlock()
	metrics.SetOnline(true)
}

// Mode reports the current mode.
func (sh *Shim) Mode() Mode {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.mode
}

// Status returns a point-in-time view for the status endpoint.
func (sh *Shim) Status() Status {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	st := Status{Mode: sh.mode, Pending: len(sh.order), LastError: sh.lastErr}
	if !sh.lastFlush.IsZero() {
		t := sh.lastFlush
		st.LastFlush = &t
	}
	return st
}

// onEvent runs inside the store's commit, so it only queues and signals.
func (sh *Shim) onEvent(ev store.Event) {
	if ev.Remote {
		return
	}
	sh.mu.Lock()
	if sh.mode != ModeOnline {
		sh.mu.Unlock()
		return
	}
	for _, c := range ev.Changes {
		sh.enqueueLocked(c)
	}
	metrics.OutboxPending.Set(float64(len(sh.order)))
	sh.mu.Unlock()

	select {
	case sh.kick <- struct{}{}:
	default:
	}
}

func (sh *Shim) enqueueLocked(c trip.Change) {
	sh.seq++
	if c.Op == trip.OpReplace {
		// A whole-snapshot write supersedes everything still queued.
		sh.order = sh.order[:0]
		clear(sh.outbox)
	}
	k := outboxKey{table: c.Table, id: c.ID}
	if _, ok := sh.outbox[k]; !ok {
		sh.order = append(sh.order, k)
	}
	sh.outbox[k] = outboxEntry{change: c, seq: sh.seq}
}

// pending returns the queued changes in flush order.
func (sh *Shim) pending() []trip.Change {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	out := make([]trip.Change, 0, len(sh.order))
	for _, k := range sh.order {
		out = append(out, sh.outbox[k].change)
	}
	return out
}

// Flush writes queued changes to the remote in order. It stops at the first
// failure so later writes never overtake an earlier one; the failed entry and
// everything after it stay queued for the next attempt.
func (sh *Shim) Flush(ctx context.Context) error {
	for {
		sh.mu.Lock()
		if len(sh.order) == 0 {
			sh.lastFlush = time.Now().UTC()
			sh.lastErr = ""
			sh.mu.Unlock()
			return nil
		}
		k := sh.order[0]
		entry := sh.outbox[k]
		sh.mu.Unlock()

		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := sh.remote.Apply(writeCtx, entry.change)
		cancel()

		sh.mu.Lock()
		if err != nil {
			sh.lastErr = err.Error()
			sh.mu.Unlock()
			metrics.RemoteWrites.WithLabelValues("error").Inc()
			return fmt.Errorf("write %s %s: %w", k.table, k.id, err)
		}
		metrics.RemoteWrites.WithLabelValues("ok").Inc()

		// If the record changed again while we were writing, keep the newer
		// value queued (at the front) instead of dropping it.
		if cur, ok := sh.outbox[k]; ok && cur.seq == entry.seq {
			delete(sh.outbox, k)
			if len(sh.order) > 0 && sh.order[0] == k {
				sh.order = sh.order[1:]
			}
		}
		metrics.OutboxPending.Set(float64(len(sh.order)))
		sh.mu.Unlock()
	}
}

// Run drives the background flush until ctx is cancelled: immediately after
// each local change, and on a gocron job every retry interval while anything
// is still queued.
func (sh *Shim) Run(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(sh.retryInterval),
		gocron.NewTask(func() {
			if sh.Status().Pending == 0 {
				return
			}
			select {
			case sh.kick <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("schedule outbox retry: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Shutdown(); err != nil {
			sh.log.Warn("scheduler shutdown", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sh.kick:
			if sh.Mode() != ModeOnline {
				continue
			}
			if err := sh.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sh.log.Warn("outbox flush failed, will retry", "error", err, "pending", sh.Status().Pending)
			}
		}
	}
}

// HandleNotification folds one remote change into the store. The row is read
// back from the remote and merged with "highest version wins", so the echo of
// our own writes (same version) is dropped. Only photos are ever deleted.
func (sh *Shim) HandleNotification(ctx context.Context, n database.Notification) {
	table := string(n.Table)

	if n.IsDelete() {
		if n.Table != trip.TablePhotos {
			metrics.RealtimeEvents.WithLabelValues(table, "ignored").Inc()
			return
		}
		applied := sh.store.Merge(ctx, trip.Change{Table: n.Table, Op: trip.OpDelete, ID: n.ID})
		metrics.RealtimeEvents.WithLabelValues(table, mergeResult(applied)).Inc()
		return
	}

	c, err := sh.remote.Fetch(ctx, n.Table, n.ID)
	if err != nil {
		if errors.Is(err, database.ErrRowNotFound) {
			// Deleted again before we got to it.
			metrics.RealtimeEvents.WithLabelValues(table, "ignored").Inc()
			return
		}
		sh.log.Warn("fetch changed row", "table", n.Table, "id", n.ID, "error", err)
		metrics.RealtimeEvents.WithLabelValues(table, "error").Inc()
		return
	}
	applied := sh.store.Merge(ctx, c)
	metrics.RealtimeEvents.WithLabelValues(table, mergeResult(applied)).Inc()
}

func mergeResult(applied bool) string {
	if applied {
		return "applied"
	}
	return "stale"
}

// Resync reloads the remote and merges every mergeable record, for use after
// the realtime connection drops and notifications may have been missed. Stale
// records are dropped by the version rule, so pending local changes survive.
func (sh *Shim) Resync(ctx context.Context) error {
	if sh.Mode() != ModeOnline {
		return nil
	}
	d, err := sh.remote.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	applied := 0
	for _, c := range mergeable(d) {
		if sh.store.Merge(ctx, c) {
			applied++
		}
	}
	sh.log.Info("resynced from remote", "applied", applied)
	return nil
}

func mergeable(d *models.AppData) []trip.Change {
	var out []trip.Change
	add := func(table trip.Table, id string, rec any) {
		out = append(out, trip.Change{Table: table, Op: trip.OpUpsert, ID: id, Record: rec})
	}
	for _, r := range d.Players {
		add(trip.TablePlayers, r.ID, r)
	}
	for _, r := range d.Scores {
		add(trip.TableScores, r.ID, r)
	}
	for _, r := range d.Photos {
		add(trip.TablePhotos, r.ID, r)
	}
	for _, r := range d.Challenges {
		add(trip.TableChallenges, r.ID, r)
	}
	for _, r := range d.Bets {
		add(trip.TableBets, r.ID, r)
	}
	for _, r := range d.Messages {
		add(trip.TableMessages, r.ID, r)
	}
	for _, r := range d.Quotes {
		add(trip.TableQuotes, r.ID, r)
	}
	return out
}
