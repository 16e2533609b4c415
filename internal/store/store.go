// Package store owns the live snapshot.
//
// Store is the single writer: every change goes through Apply (local
// mutations), Merge (records arriving from the remote) or Replace (a whole new
// snapshot), all serialized by one mutex. After a swap the new snapshot is
// persisted through the injected Persister and then handed to subscribers
// together with the list of changes. Readers call Snapshot and get an immutable
// pointer they may hold as long as they like.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/trentd187/proof/internal/metrics"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// ErrQuotaExceeded is returned by a Persister when the document is too large.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// PhotosKeptOnQuota is how many photos survive when a save hits the quota.
const PhotosKeptOnQuota = 5

// Persister writes the encoded snapshot document somewhere durable.
type Persister interface {
	Save(ctx context.Context, doc []byte) error
}

// Event is what subscribers receive after every accepted change.
type Event struct {
	Snapshot *models.AppData
	Changes  []trip.Change
	Remote   bool // The change came from the remote mirror, not a local mutation
}

// Subscriber is called with the store lock held, in commit order. It must not
// block or call back into the Store.
type Subscriber func(Event)

// Mutator is the shape of every function in package trip that changes state.
type Mutator func(d *models.AppData) (*models.AppData, []trip.Change, error)

// Store holds the current snapshot.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[models.AppData]
	env     trip.Env
	persist Persister
	log     *slog.Logger
	subs    []Subscriber
}

// New creates a store around an initial snapshot. A nil persister keeps
// everything in memory.
func New(initial *models.AppData, env trip.Env, p Persister) *Store {
	s := &Store{env: env, persist: p, log: slog.Default().With("component", "store")}
	s.current.Store(initial)
	return s
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Snapshot() *models.AppData {
	return s.current.Load()
}

// Env returns the clock and id source mutations run with.
func (s *Store) Env() trip.Env {
	return s.env
}

// Subscribe registers fn for every future change.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Apply runs a mutator against the current snapshot. On success the new
// snapshot is swapped in, persisted and published; a mutator error leaves the
// store untouched and is returned as is. A mutator that reports no changes
// (a repeated vote, say) is a successful no-op.
func (s *Store) Apply(ctx context.Context, m Mutator) (*models.AppData, []trip.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	next, changes, err := m(cur)
	if err != nil {
		metrics.Rejections.WithLabelValues(RejectionReason(err)).Inc()
		return cur, nil, err
	}
	if len(changes) == 0 {
		return cur, nil, nil
	}
	for _, c := range changes {
		metrics.Mutations.WithLabelValues(string(c.Table), string(c.Op)).Inc()
	}
	s.commit(ctx, Event{Snapshot: next, Changes: changes})
	return next, changes, nil
}

// Merge folds one remote change into the snapshot. It reports whether the
// change was applied; stale versions and unsupported deletes are dropped.
func (s *Store) Merge(ctx context.Context, c trip.Change) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := trip.Merge(s.current.Load(), c)
	if !ok {
		return false
	}
	s.commit(ctx, Event{Snapshot: next, Changes: []trip.Change{c}, Remote: true})
	return true
}

// Replace swaps in a whole snapshot, as loaded from the remote at startup.
func (s *Store) Replace(ctx context.Context, d *models.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit(ctx, Event{
		Snapshot: d,
		Changes:  []trip.Change{{Table: trip.TableAll, Op: trip.OpReplace, Record: d}},
		Remote:   true,
	})
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, ev Event) {
	s.current.Store(ev.Snapshot)
	s.save(ctx, ev.Snapshot)
	for _, fn := range s.subs {
		fn(ev)
	}
}

// save persists d. A quota error is retried once with the photo feed cut down
// to the most recent few; the in-memory snapshot keeps every photo. Any other
// failure is logged and otherwise ignored: the snapshot in memory is the truth
// for this process.
func (s *Store) save(ctx context.Context, d *models.AppData) {
	if s.persist == nil {
		return
	}
	err := s.encodeAndSave(ctx, d)
	if errors.Is(err, ErrQuotaExceeded) {
		s.log.Warn("snapshot over quota, retrying with fewer photos", "photos", len(d.Photos), "kept", PhotosKeptOnQuota)
		err = s.encodeAndSave(ctx, TruncatePhotos(d, PhotosKeptOnQuota))
	}
	if err != nil {
		s.log.Error("failed to persist snapshot", "error", err)
	}
}

func (s *Store) encodeAndSave(ctx context.Context, d *models.AppData) error {
	doc, err := trip.Encode(d)
	if err != nil {
		return err
	}
	return s.persist.Save(ctx, doc)
}

// TruncatePhotos returns a copy of d holding only the n most recent photos,
// newest first.
func TruncatePhotos(d *models.AppData, n int) *models.AppData {
	if len(d.Photos) <= n {
		return d
	}
	photos := slices.Clone(d.Photos)
	slices.SortStableFunc(photos, func(a, b models.Photo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	out := *d
	out.Photos = photos[:n]
	return &out
}

// RejectionReason maps a mutator error to a short metrics label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		return "not_found"
	case errors.Is(err, trip.ErrInvalidInput), errors.Is(err, trip.ErrUnknownReaction),
		errors.Is(err, trip.ErrWinnerNotInvolved):
		return "invalid_input"
	case errors.Is(err, trip.ErrNotOwner), errors.Is(err, trip.ErrSelfVerify), errors.Is(err, trip.ErrSelfDispute):
		return "forbidden"
	case errors.Is(err, trip.ErrAlreadyClaimed), errors.Is(err, trip.ErrNotClaimed),
		errors.Is(err, trip.ErrChallengeVerified), errors.Is(err, trip.ErrBetSettled):
		return "conflict"
	default:
		return "other"
	}
}
