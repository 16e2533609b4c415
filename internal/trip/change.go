// Package trip holds the domain operations on a snapshot.
//
// Every mutator has the shape
//
//	func(d *models.AppData, ...) (*models.AppData, []Change, error)
//
// It never writes through d. It copies the AppData header, replaces only the
// collection it touches with a fresh slice, and reports what it did as a list of
// Changes so that persistence, remote mirroring and live clients can react
// without diffing snapshots. On error the input snapshot is returned as is.
package trip

import (
	"time"

	"github.com/google/uuid"
)

// Op is what happened to a record.
type Op string

const (
	OpUpsert  Op = "upsert"
	OpDelete  Op = "delete"
	OpReplace Op = "replace" // The whole snapshot was swapped (reset, remote load)
)

// Table names double as remote table names and stream topics.
type Table string

const (
	TablePlayers     Table = "players"
	TableScores      Table = "scores"
	TablePhotos      Table = "photos"
	TableChallenges  Table = "challenges"
	TableBets        Table = "bets"
	TableMessages    Table = "messages"
	TableQuotes      Table = "quotes"
	TablePredictions Table = "predictions"
	TableTimeCapsule Table = "time_capsule"
	TableDocuments   Table = "trip_documents" // Singletons: foursomes, itinerary, trip info, capsule flag
	TableAll         Table = "all"
)

// Document ids for the singleton records stored in TableDocuments.
const (
	DocFoursomes       = "foursomes"
	DocItineraryNotes  = "itinerary_notes"
	DocTripInfo        = "trip_info"
	DocCapsuleRevealed = "capsule_revealed"
)

// Change describes one record written by a mutator. Record holds the new value
// (a models.Player, models.Score, ...) for upserts, the removed value for
// deletes, and the full *models.AppData for OpReplace.
type Change struct {
	Table  Table  `json:"table"`
	Op     Op     `json:"op"`
	ID     string `json:"id"`
	Record any    `json:"record,omitempty"`
}

// Env supplies the clock and id generator to mutators, so tests can pin both.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock in UTC and random UUIDs.
func DefaultEnv() Env {
	return Env{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

func upsert(table Table, id string, record any) Change {
	return Change{Table: table, Op: OpUpsert, ID: id, Record: record}
}
