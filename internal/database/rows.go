package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/trip"
)

// Row types mirror the remote tables column for column. The model speaks
// camelCase JSON; the database speaks snake_case, so every column is named
// explicitly and each entity has a pair of mapping functions below. List-valued
// fields are stored as jsonb through datatypes.JSON.

type PlayerRow struct {
	ID               string    `gorm:"column:id;primaryKey"`
	Number           int       `gorm:"column:number"`
	Name             string    `gorm:"column:name"`
	Nickname         string    `gorm:"column:nickname"`
	Handicap         int       `gorm:"column:handicap"`
	Avatar           *string   `gorm:"column:avatar"`
	ChallengePoints  int       `gorm:"column:challenge_points"`
	PredictionPoints int       `gorm:"column:prediction_points"`
	Version          int64     `gorm:"column:version"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (PlayerRow) TableName() string { return string(trip.TablePlayers) }

type ScoreRow struct {
	ID          string         `gorm:"column:id;primaryKey"`
	PlayerID    string         `gorm:"column:player_id"`
	RoundNumber int            `gorm:"column:round_number"`
	HoleScores  datatypes.JSON `gorm:"column:hole_scores;type:jsonb"`
	Total       int            `gorm:"column:total"`
	BlooperNote string         `gorm:"column:blooper_note"`
	Estimated   bool           `gorm:"column:estimated"`
	Version     int64          `gorm:"column:version"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (ScoreRow) TableName() string { return string(trip.TableScores) }

// ReactionColumns flattens the reaction counter into four integer columns.
type ReactionColumns struct {
	Fire  int `gorm:"column:reactions_fire"`
	Dead  int `gorm:"column:reactions_dead"`
	Laugh int `gorm:"column:reactions_laugh"`
	Cap   int `gorm:"column:reactions_cap"`
}

type PhotoRow struct {
	ID            string          `gorm:"column:id;primaryKey"`
	UploadedBy    string          `gorm:"column:uploaded_by"`
	ImageURL      string          `gorm:"column:image_url"`
	ImageData     string          `gorm:"column:image_data"`
	Caption       string          `gorm:"column:caption"`
	ProofType     string          `gorm:"column:proof_type"`
	TaggedPlayers datatypes.JSON  `gorm:"column:tagged_players;type:jsonb"`
	Reactions     ReactionColumns `gorm:"embedded"`
	Version       int64           `gorm:"column:version"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (PhotoRow) TableName() string { return string(trip.TablePhotos) }

type ChallengeRow struct {
	ID              string         `gorm:"column:id;primaryKey"`
	Title           string         `gorm:"column:title"`
	Description     string         `gorm:"column:description"`
	Points          int            `gorm:"column:points"`
	Category        string         `gorm:"column:category"`
	ProofRequired   bool           `gorm:"column:proof_required"`
	WitnessRequired bool           `gorm:"column:witness_required"`
	Status          string         `gorm:"column:status"`
	ClaimedBy       *string        `gorm:"column:claimed_by"`
	VerifiedBy      datatypes.JSON `gorm:"column:verified_by;type:jsonb"`
	DisputedBy      datatypes.JSON `gorm:"column:disputed_by;type:jsonb"`
	ProofPhotoID    *string        `gorm:"column:proof_photo_id"`
	Version         int64          `gorm:"column:version"`
}

func (ChallengeRow) TableName() string { return string(trip.TableChallenges) }

type BetRow struct {
	ID              string         `gorm:"column:id;primaryKey"`
	Description     string         `gorm:"column:description"`
	PlayersInvolved datatypes.JSON `gorm:"column:players_involved;type:jsonb"`
	Stakes          string         `gorm:"column:stakes"`
	Status          string         `gorm:"column:status"`
	Winner          *string        `gorm:"column:winner"`
	CreatedBy       string         `gorm:"column:created_by"`
	Version         int64          `gorm:"column:version"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
}

func (BetRow) TableName() string { return string(trip.TableBets) }

type MessageRow struct {
	ID        string          `gorm:"column:id;primaryKey"`
	PlayerID  string          `gorm:"column:player_id"`
	Content   string          `gorm:"column:content"`
	Reactions ReactionColumns `gorm:"embedded"`
	Version   int64           `gorm:"column:version"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (MessageRow) TableName() string { return string(trip.TableMessages) }

type QuoteRow struct {
	ID        string          `gorm:"column:id;primaryKey"`
	Content   string          `gorm:"column:content"`
	SaidBy    string          `gorm:"column:said_by"`
	Context   string          `gorm:"column:context"`
	Reactions ReactionColumns `gorm:"embedded"`
	Version   int64           `gorm:"column:version"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (QuoteRow) TableName() string { return string(trip.TableQuotes) }

type PredictionRow struct {
	ID              string    `gorm:"column:id;primaryKey"`
	PlayerID        string    `gorm:"column:player_id"`
	RoundNumber     int       `gorm:"column:round_number"`
	PredictedWinner string    `gorm:"column:predicted_winner"`
	OwnOverUnder    int       `gorm:"column:own_over_under"`
	FirstWater      string    `gorm:"column:first_water"`
	Most3Putts      string    `gorm:"column:most_3_putts"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (PredictionRow) TableName() string { return string(trip.TablePredictions) }

type CapsuleRow struct {
	PlayerID      string    `gorm:"column:player_id;primaryKey"`
	TripWinner    string    `gorm:"column:trip_winner"`
	TripLast      string    `gorm:"column:trip_last"`
	SecretGoal    string    `gorm:"column:secret_goal"`
	Prediction    string    `gorm:"column:prediction"`
	MessageToSelf string    `gorm:"column:message_to_self"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (CapsuleRow) TableName() string { return string(trip.TableTimeCapsule) }

// DocumentRow stores one singleton (foursomes, itinerary, trip info, the
// capsule flag) as a jsonb value under a fixed id.
type DocumentRow struct {
	ID        string         `gorm:"column:id;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (DocumentRow) TableName() string { return string(trip.TableDocuments) }

// --- model -> row ---

func jsonValue(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		// Only string and int slices and plain structs go through here.
		panic(fmt.Sprintf("database: marshal %T: %v", v, err))
	}
	return datatypes.JSON(b)
}

func reactionColumns(r models.Reactions) ReactionColumns {
	return ReactionColumns{Fire: r.Fire, Dead: r.Dead, Laugh: r.Laugh, Cap: r.Cap}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func PlayerToRow(p models.Player) PlayerRow {
	return PlayerRow{
		ID: p.ID, Number: p.Number, Name: p.Name, Nickname: p.Nickname, Handicap: p.Handicap,
		Avatar: p.Avatar, ChallengePoints: p.ChallengePoints, PredictionPoints: p.PredictionPoints,
		Version: p.Version, UpdatedAt: p.UpdatedAt,
	}
}

func ScoreToRow(s models.Score) ScoreRow {
	return ScoreRow{
		ID: s.ID, PlayerID: s.PlayerID, RoundNumber: s.RoundNumber,
		HoleScores: jsonValue(orEmpty(s.HoleScores)), Total: s.Total, BlooperNote: s.BlooperNote,
		Estimated: s.Estimated, Version: s.Version, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func PhotoToRow(p models.Photo) PhotoRow {
	return PhotoRow{
		ID: p.ID, UploadedBy: p.UploadedBy, ImageURL: p.ImageURL, ImageData: p.ImageData,
		Caption: p.Caption, ProofType: string(p.ProofType), TaggedPlayers: jsonValue(orEmpty(p.TaggedPlayers)),
		Reactions: reactionColumns(p.Reactions), Version: p.Version, CreatedAt: p.CreatedAt,
	}
}

func ChallengeToRow(c models.Challenge) ChallengeRow {
	return ChallengeRow{
		ID: c.ID, Title: c.Title, Description: c.Description, Points: c.Points,
		Category: string(c.Category), ProofRequired: c.ProofRequired, WitnessRequired: c.WitnessRequired,
		Status: string(c.Status), ClaimedBy: c.ClaimedBy,
		VerifiedBy: jsonValue(orEmpty(c.VerifiedBy)), DisputedBy: jsonValue(orEmpty(c.DisputedBy)),
		ProofPhotoID: c.ProofPhotoID, Version: c.Version,
	}
}

func BetToRow(b models.Bet) BetRow {
	return BetRow{
		ID: b.ID, Description: b.Description, PlayersInvolved: jsonValue(orEmpty(b.PlayersInvolved)),
		Stakes: b.Stakes, Status: string(b.Status), Winner: b.Winner, CreatedBy: b.CreatedBy,
		Version: b.Version, CreatedAt: b.CreatedAt,
	}
}

func MessageToRow(m models.Message) MessageRow {
	return MessageRow{
		ID: m.ID, PlayerID: m.PlayerID, Content: m.Content,
		Reactions: reactionColumns(m.Reactions), Version: m.Version, CreatedAt: m.CreatedAt,
	}
}

func QuoteToRow(q models.Quote) QuoteRow {
	return QuoteRow{
		ID: q.ID, Content: q.Content, SaidBy: q.SaidBy, Context: q.Context,
		Reactions: reactionColumns(q.Reactions), Version: q.Version, CreatedAt: q.CreatedAt,
	}
}

func PredictionToRow(p models.Prediction) PredictionRow {
	return PredictionRow{
		ID: p.ID, PlayerID: p.PlayerID, RoundNumber: p.RoundNumber, PredictedWinner: p.PredictedWinner,
		OwnOverUnder: p.OwnOverUnder, FirstWater: p.FirstWater, Most3Putts: p.Most3Putts, CreatedAt: p.CreatedAt,
	}
}

func CapsuleToRow(e models.TimeCapsuleEntry) CapsuleRow {
	return CapsuleRow{
		PlayerID: e.PlayerID, TripWinner: e.TripWinner, TripLast: e.TripLast, SecretGoal: e.SecretGoal,
		Prediction: e.Prediction, MessageToSelf: e.MessageToSelf, CreatedAt: e.CreatedAt,
	}
}

func DocumentToRow(id string, value any, now time.Time) DocumentRow {
	return DocumentRow{ID: id, Value: jsonValue(value), UpdatedAt: now}
}

// --- row -> model ---

// decodeList reads a jsonb list column. NULL or malformed values become an
// empty list rather than failing the whole row.
func decodeList[T any](j datatypes.JSON) []T {
	out := []T{}
	if len(j) == 0 {
		return out
	}
	if err := json.Unmarshal(j, &out); err != nil {
		return []T{}
	}
	return out
}

func (r ReactionColumns) model() models.Reactions {
	return models.Reactions{Fire: r.Fire, Dead: r.Dead, Laugh: r.Laugh, Cap: r.Cap}
}

func (r PlayerRow) Model() models.Player {
	return models.Player{
		ID: r.ID, Number: r.Number, Name: r.Name, Nickname: r.Nickname, Handicap: r.Handicap,
		Avatar: r.Avatar, ChallengePoints: r.ChallengePoints, PredictionPoints: r.PredictionPoints,
		Version: r.Version, UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r ScoreRow) Model() models.Score {
	return models.Score{
		ID: r.ID, PlayerID: r.PlayerID, RoundNumber: r.RoundNumber, HoleScores: decodeList[int](r.HoleScores),
		Total: r.Total, BlooperNote: r.BlooperNote, Estimated: r.Estimated, Version: r.Version,
		CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r PhotoRow) Model() models.Photo {
	return models.Photo{
		ID: r.ID, UploadedBy: r.UploadedBy, ImageURL: r.ImageURL, ImageData: r.ImageData, Caption: r.Caption,
		ProofType: models.ProofType(r.ProofType), TaggedPlayers: decodeList[string](r.TaggedPlayers),
		Reactions: r.Reactions.model(), Version: r.Version, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r ChallengeRow) Model() models.Challenge {
	return models.Challenge{
		ID: r.ID, Title: r.Title, Description: r.Description, Points: r.Points,
		Category: models.ChallengeCategory(r.Category), ProofRequired: r.ProofRequired,
		WitnessRequired: r.WitnessRequired, Status: models.ChallengeStatus(r.Status), ClaimedBy: r.ClaimedBy,
		VerifiedBy: decodeList[string](r.VerifiedBy), DisputedBy: decodeList[string](r.DisputedBy),
		ProofPhotoID: r.ProofPhotoID, Version: r.Version,
	}
}

func (r BetRow) Model() models.Bet {
	return models.Bet{
		ID: r.ID, Description: r.Description, PlayersInvolved: decodeList[string](r.PlayersInvolved),
		Stakes: r.Stakes, Status: models.BetStatus(r.Status), Winner: r.Winner, CreatedBy: r.CreatedBy,
		Version: r.Version, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r MessageRow) Model() models.Message {
	return models.Message{
		ID: r.ID, PlayerID: r.PlayerID, Content: r.Content, Reactions: r.Reactions.model(),
		Version: r.Version, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r QuoteRow) Model() models.Quote {
	return models.Quote{
		ID: r.ID, Content: r.Content, SaidBy: r.SaidBy, Context: r.Context, Reactions: r.Reactions.model(),
		Version: r.Version, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r PredictionRow) Model() models.Prediction {
	return models.Prediction{
		ID: r.ID, PlayerID: r.PlayerID, RoundNumber: r.RoundNumber, PredictedWinner: r.PredictedWinner,
		OwnOverUnder: r.OwnOverUnder, FirstWater: r.FirstWater, Most3Putts: r.Most3Putts, CreatedAt: r.CreatedAt.UTC(),
	}
}

func (r CapsuleRow) Model() models.TimeCapsuleEntry {
	return models.TimeCapsuleEntry{
		PlayerID: r.PlayerID, TripWinner: r.TripWinner, TripLast: r.TripLast, SecretGoal: r.SecretGoal,
		Prediction: r.Prediction, MessageToSelf: r.MessageToSelf, CreatedAt: r.CreatedAt.UTC(),
	}
}

// RowForChange converts the record carried by a trip.Change into the row to
// write. Singletons become DocumentRows keyed by the change id.
func RowForChange(c trip.Change, now time.Time) (any, error) {
	switch rec := c.Record.(type) {
	case models.Player:
		return PlayerToRow(rec), nil
	case models.Score:
		return ScoreToRow(rec), nil
	case models.Photo:
		return PhotoToRow(rec), nil
	case models.Challenge:
		return ChallengeToRow(rec), nil
	case models.Bet:
		return BetToRow(rec), nil
	case models.Message:
		return MessageToRow(rec), nil
	case models.Quote:
		return QuoteToRow(rec), nil
	case models.Prediction:
		return PredictionToRow(rec), nil
	case models.TimeCapsuleEntry:
		return CapsuleToRow(rec), nil
	}
	if c.Table == trip.TableDocuments {
		return DocumentToRow(c.ID, c.Record, now), nil
	}
	return nil, fmt.Errorf("no row mapping for %s record %T", c.Table, c.Record)
}
