package database

import (
	"encoding/json"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

func TestScoreRowRoundTrip(t *testing.T) {
	created := time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC)
	s := models.Score{
		ID: "s1", PlayerID: "player-3", RoundNumber: 2, HoleScores: []int{4, 5, 3},
		Total: 12, BlooperNote: "shanked it", Version: 4, CreatedAt: created, UpdatedAt: created,
	}
	row := ScoreToRow(s)
	if string(row.HoleScores) != "[4,5,3]" {
		t.Errorf("hole_scores = %s", row.HoleScores)
	}
	got := row.Model()
	if got.ID != s.ID || got.Total != 12 || len(got.HoleScores) != 3 || got.Version != 4 || !got.CreatedAt.Equal(created) {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestNilListsBecomeEmptyArrays(t *testing.T) {
	tests := []struct {
		name string
		got  datatypes.JSON
	}{
		{"score holes", ScoreToRow(models.Score{}).HoleScores},
		{"photo tags", PhotoToRow(models.Photo{}).TaggedPlayers},
		{"verifiers", ChallengeToRow(models.Challenge{}).VerifiedBy},
		{"disputers", ChallengeToRow(models.Challenge{}).DisputedBy},
		{"bet players", BetToRow(models.Bet{}).PlayersInvolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.got) != "[]" {
				t.Errorf("got %s, want []", tt.got)
			}
		})
	}
}

func TestMalformedListColumnDecodesEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  datatypes.JSON
	}{
		{"null column", nil},
		{"not a list", datatypes.JSON(`{"a":1}`)},
		{"garbage", datatypes.JSON(`[1,`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChallengeRow{VerifiedBy: tt.raw}.Model().VerifiedBy
			if got == nil || len(got) != 0 {
				t.Errorf("got %#v, want empty non-nil slice", got)
			}
		})
	}
}

func TestReactionsUseFlatColumns(t *testing.T) {
	m := models.Message{ID: "m1", Reactions: models.Reactions{Fire: 2, Cap: 1}}
	row := MessageToRow(m)
	if row.Reactions.Fire != 2 || row.Reactions.Cap != 1 {
		t.Errorf("columns = %+v", row.Reactions)
	}
	if got := row.Model().Reactions; got != m.Reactions {
		t.Errorf("reactions = %+v, want %+v", got, m.Reactions)
	}
}

func TestRowForChange(t *testing.T) {
	now := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)

	row, err := RowForChange(trip.Change{Table: trip.TableDocuments, Op: trip.OpUpsert, ID: trip.DocCapsuleRevealed, Record: true}, now)
	if err != nil {
		t.Fatal(err)
	}
	doc, ok := row.(DocumentRow)
	if !ok || doc.ID != trip.DocCapsuleRevealed || string(doc.Value) != "true" || !doc.UpdatedAt.Equal(now) {
		t.Errorf("document row = %#v", row)
	}

	row, err = RowForChange(trip.Change{Table: trip.TableBets, Op: trip.OpUpsert, ID: "b1", Record: models.Bet{ID: "b1"}}, now)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := row.(BetRow); !ok {
		t.Errorf("got %T, want BetRow", row)
	}

	if _, err := RowForChange(trip.Change{Table: trip.TableBets, Record: 42}, now); err == nil {
		t.Error("expected an error for an unmapped record")
	}
}

func TestApplyDocumentKeepsDefaultOnBadValue(t *testing.T) {
	d := trip.Default()
	want := d.TripInfo

	if err := applyDocument(d, DocumentRow{ID: trip.DocTripInfo, Value: datatypes.JSON(`"oops"`)}); err == nil {
		t.Error("expected a decode error")
	}
	if d.TripInfo != want {
		t.Error("a bad document overwrote the default")
	}

	if err := applyDocument(d, DocumentRow{ID: trip.DocCapsuleRevealed, Value: datatypes.JSON(`true`)}); err != nil {
		t.Fatal(err)
	}
	if !d.CapsuleRevealed {
		t.Error("capsule flag not applied")
	}
	if err := applyDocument(d, DocumentRow{ID: "something_new", Value: datatypes.JSON(`1`)}); err != nil {
		t.Errorf("unknown documents should be ignored, got %v", err)
	}
}

func TestParseNotification(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Notification
		wantErr bool
	}{
		{"update", `{"table":"scores","type":"UPDATE","id":"s1"}`, Notification{Table: trip.TableScores, Type: "UPDATE", ID: "s1"}, false},
		{"delete", `{"table":"photos","type":"DELETE","id":"p9"}`, Notification{Table: trip.TablePhotos, Type: "DELETE", ID: "p9"}, false},
		{"missing id", `{"table":"bets","type":"INSERT"}`, Notification{}, true},
		{"not json", `scores:s1`, Notification{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNotification(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
	if !(Notification{Type: "DELETE"}).IsDelete() {
		t.Error("IsDelete")
	}
}

func TestDocumentValueIsJSON(t *testing.T) {
	d := trip.Default()
	for _, row := range documentRows(d, time.Now()) {
		if !json.Valid(row.Value) {
			t.Errorf("%s: invalid json %s", row.ID, row.Value)
		}
	}
}
