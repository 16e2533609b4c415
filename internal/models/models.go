// Package models defines the in-memory data model for the trip.
// Everything the app knows lives in one AppData value (a "snapshot"). Snapshots
// are treated as immutable: a change produces a new AppData that shares the
// untouched collections with the previous one, so nothing in this package has
// setters. The JSON tags use camelCase because the persisted document and the
// mobile client both speak that shape; the remote database uses snake_case and
// has its own row types in internal/database.
//
// The model covers a 12-player trip:
//   - Players log Scores (one per player per round)
//   - Photos, Messages and Quotes collect reactions
//   - Challenges move through a claim/verify/dispute workflow
//   - Bets are created once and settled once
//   - Predictions and TimeCapsule entries are upserted by their owners
package models

import "time"

// --- Enums ---
// Same trick as any Go enum: a named string type plus constants, so a ProofType
// can't be passed where a ChallengeStatus is expected.

// ProofType tags what kind of moment a photo captures.
type ProofType string

const (
	ProofGlory     ProofType = "glory"     // Proof of Glory
	ProofDisaster  ProofType = "disaster"  // Proof of Disaster
	ProofLies      ProofType = "lies"      // Proof of Lies (someone's story didn't hold up)
	ProofLife      ProofType = "life"      // Proof of Life (everyone survived the night)
	ProofChallenge ProofType = "challenge" // Evidence attached to a challenge claim
)

// Valid reports whether p is one of the known proof types.
func (p ProofType) Valid() bool {
	switch p {
	case ProofGlory, ProofDisaster, ProofLies, ProofLife, ProofChallenge:
		return true
	}
	return false
}

// ChallengeCategory groups catalog entries for display.
type ChallengeCategory string

const (
	CategoryDrinking  ChallengeCategory = "drinking"
	CategoryGolf      ChallengeCategory = "golf"
	CategoryFood      ChallengeCategory = "food"
	CategorySocial    ChallengeCategory = "social"
	CategoryDare      ChallengeCategory = "dare"
	CategorySkill     ChallengeCategory = "skill"
	CategoryEndurance ChallengeCategory = "endurance"
)

// ChallengeStatus is the state of a challenge in the claim workflow.
// There is no separate "disputed" state: three disputes reset the challenge to open.
type ChallengeStatus string

const (
	ChallengeOpen     ChallengeStatus = "open"     // Nobody has claimed it
	ChallengeClaimed  ChallengeStatus = "claimed"  // Claimed, waiting on witnesses
	ChallengeVerified ChallengeStatus = "verified" // Terminal: points have been paid out
)

// BetStatus tracks whether a bet still needs a winner.
type BetStatus string

const (
	BetOpen    BetStatus = "open"
	BetSettled BetStatus = "settled" // Terminal: the winner is fixed
)

// Reaction is one of the four fixed reaction keys shared by photos, messages and quotes.
type Reaction string

const (
	ReactionFire  Reaction = "fire"
	ReactionDead  Reaction = "dead"
	ReactionLaugh Reaction = "laugh"
	ReactionCap   Reaction = "cap"
)

// ParseReaction converts a raw key into a Reaction, reporting false for unknown keys.
func ParseReaction(s string) (Reaction, bool) {
	switch r := Reaction(s); r {
	case ReactionFire, ReactionDead, ReactionLaugh, ReactionCap:
		return r, true
	}
	return "", false
}

// Reactions is the fixed-shape reaction counter. Counts only ever go up.
type Reactions struct {
	Fire  int `json:"fire"`
	Dead  int `json:"dead"`
	Laugh int `json:"laugh"`
	Cap   int `json:"cap"`
}

// Inc returns a copy of r with the given reaction incremented by one.
func (r Reactions) Inc(key Reaction) Reactions {
	switch key {
	case ReactionFire:
		r.Fire++
	case ReactionDead:
		r.Dead++
	case ReactionLaugh:
		r.Laugh++
	case ReactionCap:
		r.Cap++
	}
	return r
}

// HolesPerRound is fixed: every round in the trip is a full 18.
const HolesPerRound = 18

// RoundCount is the number of scheduled rounds on the trip.
const RoundCount = 4

// --- Entities ---
// Version is a per-record logical clock. Every local change bumps it by one,
// and realtime merges only accept a record whose version is higher than the
// one we already hold.

// Player is one of the twelve fixed seats on the trip.
type Player struct {
	ID               string    `json:"id"`               // "player-1" .. "player-12"
	Number           int       `json:"number"`           // Seat number, also the leaderboard tie-breaker
	Name             string    `json:"name"`
	Nickname         string    `json:"nickname"`         // Shown instead of Name when set
	Handicap         int       `json:"handicap"`
	Avatar           *string   `json:"avatar"`           // Optional avatar URL or data URL; nil = no avatar
	ChallengePoints  int       `json:"challengePoints"`  // Only increases (verified challenges)
	PredictionPoints int       `json:"predictionPoints"` // Only increases (awarded by the organizer)
	Version          int64     `json:"version"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisplayName returns the nickname when one is set, otherwise the name.
func (p Player) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.Name
}

// Score is a player's card for one round. (PlayerID, RoundNumber) is unique.
type Score struct {
	ID          string    `json:"id"`
	PlayerID    string    `json:"playerId"`
	RoundNumber int       `json:"roundNumber"` // 1..4
	HoleScores  []int     `json:"holeScores"`  // 18 values, 0 = hole not entered
	Total       int       `json:"total"`
	BlooperNote string    `json:"blooperNote"`
	// Estimated marks a card entered in quick mode: only the front and back nine
	// totals are real and HoleScores is an even split of them, not what was played.
	Estimated bool      `json:"estimated"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"` // Refreshed on every upsert; drives "today's score"
	Version   int64     `json:"version"`
}

// Photo is an uploaded picture with a caption and reactions.
type Photo struct {
	ID            string    `json:"id"`
	UploadedBy    string    `json:"uploadedBy"`
	ImageData     string    `json:"imageData,omitempty"` // Inline payload (data URL) when no object storage is configured
	ImageURL      string    `json:"imageUrl,omitempty"`  // Public URL when the payload lives in object storage
	Caption       string    `json:"caption"`
	ProofType     ProofType `json:"proofType"`
	TaggedPlayers []string  `json:"taggedPlayers"`
	Reactions     Reactions `json:"reactions"`
	CreatedAt     time.Time `json:"createdAt"`
	Version       int64     `json:"version"`
}

// Challenge is a catalog entry plus its workflow state.
type Challenge struct {
	ID              string            `json:"id"` // Slug of the title, stable across installs
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Points          int               `json:"points"`
	Category        ChallengeCategory `json:"category"`
	ProofRequired   bool              `json:"proofRequired"`   // Informational only
	WitnessRequired bool              `json:"witnessRequired"` // Informational only
	Status          ChallengeStatus   `json:"status"`
	ClaimedBy       *string           `json:"claimedBy"` // nil while open
	VerifiedBy      []string          `json:"verifiedBy"`
	DisputedBy      []string          `json:"disputedBy"`
	ProofPhotoID    *string           `json:"proofPhotoId"`
	Version         int64             `json:"version"`
}

// Bet is a side bet between two or more players.
type Bet struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	PlayersInvolved []string  `json:"playersInvolved"`
	Stakes          string    `json:"stakes"`
	Status          BetStatus `json:"status"`
	Winner          *string   `json:"winner"` // Set once, at settlement
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int64     `json:"version"`
}

// Message is a group chat line.
type Message struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Content   string    `json:"content"`
	Reactions Reactions `json:"reactions"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int64     `json:"version"`
}

// Quote is something someone said that deserves to be remembered.
type Quote struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SaidBy    string    `json:"saidBy"`
	Context   string    `json:"context"`
	Reactions Reactions `json:"reactions"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int64     `json:"version"`
}

// Prediction holds a player's picks for a round. (PlayerID, RoundNumber) is unique.
type Prediction struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"playerId"`
	RoundNumber     int       `json:"roundNumber"`
	PredictedWinner string    `json:"predictedWinner"`
	OwnOverUnder    int       `json:"ownOverUnder"`
	FirstWater      string    `json:"firstWater"`
	Most3Putts      string    `json:"most3Putts"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TimeCapsuleEntry is sealed until the organizer reveals the capsule. One per player.
type TimeCapsuleEntry struct {
	PlayerID      string    `json:"playerId"`
	TripWinner    string    `json:"tripWinner"`
	TripLast      string    `json:"tripLast"`
	SecretGoal    string    `json:"secretGoal"`
	Prediction    string    `json:"prediction"`
	MessageToSelf string    `json:"messageToSelf"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Foursomes is the pairing sheet: for each round, the roster split into groups of four.
type Foursomes struct {
	Round1 [][]string `json:"round1"`
	Round2 [][]string `json:"round2"`
	Round3 [][]string `json:"round3"`
	Round4 [][]string `json:"round4"`
}

// Rounds returns the four rounds in order, which is handier for validation loops.
func (f Foursomes) Rounds() [][][]string {
	return [][][]string{f.Round1, f.Round2, f.Round3, f.Round4}
}

// ItineraryNotes is the day-by-day plan.
type ItineraryNotes struct {
	Thursday []string `json:"thursday"`
	Friday   []string `json:"friday"`
	Saturday []string `json:"saturday"`
	Sunday   []string `json:"sunday"`
	Monday   []string `json:"monday"`
}

// TripInfo is the logistics card: where the house is and how to get in.
type TripInfo struct {
	HouseAddress     string `json:"houseAddress"`
	DoorCode         string `json:"doorCode"`
	WifiPassword     string `json:"wifiPassword"`
	EmergencyContact string `json:"emergencyContact"`
	NearestHospital  string `json:"nearestHospital"`
	LocalPizza       string `json:"localPizza"`
}

// AppData is one snapshot of the whole trip.
type AppData struct {
	Players         []Player           `json:"players"`
	Scores          []Score            `json:"scores"`
	Foursomes       Foursomes          `json:"foursomes"`
	Photos          []Photo            `json:"photos"`
	Challenges      []Challenge        `json:"challenges"`
	Bets            []Bet              `json:"bets"`
	Messages        []Message          `json:"messages"`
	Quotes          []Quote            `json:"quotes"`
	Predictions     []Prediction       `json:"predictions"`
	TimeCapsule     []TimeCapsuleEntry `json:"timeCapsule"`
	CapsuleRevealed bool               `json:"capsuleRevealed"`
	ItineraryNotes  ItineraryNotes     `json:"itineraryNotes"`
	TripInfo        TripInfo           `json:"tripInfo"`
}

// Round describes a scheduled round: where and when.
type Round struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Course string `json:"course"`
	Day    string `json:"day"`
}

// Rounds is the fixed trip schedule.
var Rounds = []Round{
	{Number: 1, Name: "Round 1", Course: "Ponce de Leon", Day: "Friday AM"},
	{Number: 2, Name: "Round 2", Course: "Balboa", Day: "Friday PM"},
	{Number: 3, Name: "Round 3", Course: "Isabella", Day: "Saturday PM"},
	{Number: 4, Name: "Round 4", Course: "Granada", Day: "Sunday AM (Championship)"},
}

// RoundByNumber looks up a scheduled round.
func RoundByNumber(n int) (Round, bool) {
	for _, r := range Rounds {
		if r.Number == n {
			return r, true
		}
	}
	return Round{}, false
}

// HandicapLabel returns the roast line for a handicap bracket.
func HandicapLabel(handicap int) string {
	switch {
	case handicap <= 5:
		return "Allegedly"
	case handicap <= 10:
		return "Decent on paper"
	case handicap <= 15:
		return "Weekend warrior"
	case handicap <= 20:
		return "Plays for the beer cart"
	case handicap <= 25:
		return "Cart path connoisseur"
	case handicap <= 30:
		return "Finds every bunker"
	case handicap <= 36:
		return "Just happy to be here"
	default:
		return "Bought clubs last week"
	}
}
