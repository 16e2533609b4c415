package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/proof/internal/challenges"
	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// Mirror reads and writes the snapshot in the remote tables.
type Mirror struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMirror wraps an open connection.
func NewMirror(db *gorm.DB) *Mirror {
	return &Mirror{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// IsEmpty reports whether the remote has never been seeded. The roster is
// always present in a seeded database, so an empty players table means empty.
func (m *Mirror) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := m.db.WithContext(ctx).Model(&PlayerRow{}).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count players: %w", err)
	}
	return n == 0, nil
}

// upsertAll is INSERT ... ON CONFLICT (primary key) DO UPDATE SET every column.
var upsertAll = clause.OnConflict{UpdateAll: true}

// Apply writes one change to the remote. Upserts replace the whole row;
// photo deletes remove it; a replace rewrites every table.
func (m *Mirror) Apply(ctx context.Context, c trip.Change) error {
	switch c.Op {
	case trip.OpReplace:
		d, ok := c.Record.(*models.AppData)
		if !ok {
			return fmt.Errorf("replace change carries %T, want *models.AppData", c.Record)
		}
		return m.Seed(ctx, d)
	case trip.OpDelete:
		if c.Table != trip.TablePhotos {
			return fmt.Errorf("delete is not supported for %s", c.Table)
		}
		return m.db.WithContext(ctx).Delete(&PhotoRow{}, "id = ?", c.ID).Error
	}

	row, err := RowForChange(c, m.now())
	if err != nil {
		return err
	}
	if err := m.db.WithContext(ctx).Clauses(upsertAll).Create(row).Error; err != nil {
		return fmt.Errorf("upsert %s %s: %w", c.Table, c.ID, err)
	}
	return nil
}

// Seed replaces everything in the remote with d, in one transaction.
func (m *Mirror) Seed(ctx context.Context, d *models.AppData) error {
	now := m.now()
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear every table. AllowGlobalUpdate lets gorm run an unfiltered delete.
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&PlayerRow{}, &ScoreRow{}, &PhotoRow{}, &ChallengeRow{}, &BetRow{}, &MessageRow{},
			&QuoteRow{}, &PredictionRow{}, &CapsuleRow{}, &DocumentRow{},
		} {
			if err := wipe.Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}

		steps := []func() error{
			func() error { return insertAll(tx, mapAll(d.Players, PlayerToRow)) },
			func() error { return insertAll(tx, mapAll(d.Scores, ScoreToRow)) },
			func() error { return insertAll(tx, mapAll(d.Photos, PhotoToRow)) },
			func() error { return insertAll(tx, mapAll(d.Challenges, ChallengeToRow)) },
			func() error { return insertAll(tx, mapAll(d.Bets, BetToRow)) },
			func() error { return insertAll(tx, mapAll(d.Messages, MessageToRow)) },
			func() error { return insertAll(tx, mapAll(d.Quotes, QuoteToRow)) },
			func() error { return insertAll(tx, mapAll(d.Predictions, PredictionToRow)) },
			func() error { return insertAll(tx, mapAll(d.TimeCapsule, CapsuleToRow)) },
			func() error { return insertAll(tx, documentRows(d, now)) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// insertAll writes rows in batches. gorm refuses an empty slice, so that is a no-op.
func insertAll[R any](tx *gorm.DB, rows []R) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 100).Error; err != nil {
		var zero R
		return fmt.Errorf("insert %T: %w", zero, err)
	}
	return nil
}

func mapAll[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func documentRows(d *models.AppData, now time.Time) []DocumentRow {
	return []DocumentRow{
		DocumentToRow(trip.DocFoursomes, d.Foursomes, now),
		DocumentToRow(trip.DocItineraryNotes, d.ItineraryNotes, now),
		DocumentToRow(trip.DocTripInfo, d.TripInfo, now),
		DocumentToRow(trip.DocCapsuleRevealed, d.CapsuleRevealed, now),
	}
}

// LoadSnapshot reads every table concurrently and assembles a snapshot over
// trip.Default(): an empty roster or challenge table, or a missing or malformed
// singleton document, keeps the default for that field.
func (m *Mirror) LoadSnapshot(ctx context.Context) (*models.AppData, error) {
	d := trip.Default()

	var (
		players     []PlayerRow
		scores      []ScoreRow
		photos      []PhotoRow
		chs         []ChallengeRow
		bets        []BetRow
		messages    []MessageRow
		quotes      []QuoteRow
		predictions []PredictionRow
		capsule     []CapsuleRow
		docs        []DocumentRow
	)
	// The first failure cancels the other queries.
	g, gctx := errgroup.WithContext(ctx)
	db := m.db.WithContext(gctx)
	load := func(dest any, order string) {
		g.Go(func() error {
			q := db
			if order != "" {
				q = q.Order(order)
			}
			if err := q.Find(dest).Error; err != nil {
				return fmt.Errorf("load %T: %w", dest, err)
			}
			return nil
		})
	}
	load(&players, "number")
	load(&scores, "created_at")
	load(&photos, "created_at DESC")
	load(&chs, "")
	load(&bets, "created_at DESC")
	load(&messages, "created_at")
	load(&quotes, "created_at DESC")
	load(&predictions, "created_at")
	load(&capsule, "created_at")
	load(&docs, "")
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(players) > 0 {
		d.Players = mapAll(players, PlayerRow.Model)
	}
	if len(chs) > 0 {
		d.Challenges = mapAll(chs, ChallengeRow.Model)
		slices.SortStableFunc(d.Challenges, func(a, b models.Challenge) int {
			return challenges.Position(a.ID) - challenges.Position(b.ID)
		})
	}
	d.Scores = mapAll(scores, ScoreRow.Model)
	d.Photos = mapAll(photos, PhotoRow.Model)
	d.Bets = mapAll(bets, BetRow.Model)
	d.Messages = mapAll(messages, MessageRow.Model)
	d.Quotes = mapAll(quotes, QuoteRow.Model)
	d.Predictions = mapAll(predictions, PredictionRow.Model)
	d.TimeCapsule = mapAll(capsule, CapsuleRow.Model)

	for _, doc := range docs {
		if err := applyDocument(d, doc); err != nil {
			slog.Warn("ignoring malformed remote document", "id", doc.ID, "error", err)
		}
	}
	return d, nil
}

// applyDocument decodes one singleton over its default. Unknown ids are ignored.
func applyDocument(d *models.AppData, doc DocumentRow) error {
	switch doc.ID {
	case trip.DocFoursomes:
		return decodeInto(doc.Value, &d.Foursomes)
	case trip.DocItineraryNotes:
		return decodeInto(doc.Value, &d.ItineraryNotes)
	case trip.DocTripInfo:
		return decodeInto(doc.Value, &d.TripInfo)
	case trip.DocCapsuleRevealed:
		return decodeInto(doc.Value, &d.CapsuleRevealed)
	}
	return nil
}

// decodeInto decodes into a scratch value so a failure leaves dst alone.
func decodeInto[T any](raw []byte, dst *T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// ErrRowNotFound is returned by Fetch when the row is gone.
var ErrRowNotFound = errors.New("row not found")

// Fetch reads one row by id and returns it as an upsert change ready to merge.
// Only the tables that send change notifications are supported.
func (m *Mirror) Fetch(ctx context.Context, table trip.Table, id string) (trip.Change, error) {
	db := m.db.WithContext(ctx)
	var record any
	var err error
	switch table {
	case trip.TablePlayers:
		record, err = first[PlayerRow](db, id, PlayerRow.Model)
	case trip.TableScores:
		record, err = first[ScoreRow](db, id, ScoreRow.Model)
	case trip.TablePhotos:
		record, err = first[PhotoRow](db, id, PhotoRow.Model)
	case trip.TableChallenges:
		record, err = first[ChallengeRow](db, id, ChallengeRow.Model)
	case trip.TableBets:
		record, err = first[BetRow](db, id, BetRow.Model)
	case trip.TableMessages:
		record, err = first[MessageRow](db, id, MessageRow.Model)
	case trip.TableQuotes:
		record, err = first[QuoteRow](db, id, QuoteRow.Model)
	default:
		return trip.Change{}, fmt.Errorf("fetch from %s is not supported", table)
	}
	if err != nil {
		return trip.Change{}, err
	}
	return trip.Change{Table: table, Op: trip.OpUpsert, ID: id, Record: record}, nil
}

func first[R any, M any](db *gorm.DB, id string, model func(R) M) (M, error) {
	var row R
	err := db.Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var zero M
		return zero, fmt.Errorf("%s: %w", id, ErrRowNotFound)
	}
	if err != nil {
		var zero M
		return zero, err
	}
	return model(row), nil
}
