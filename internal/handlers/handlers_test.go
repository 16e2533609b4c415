package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/proof/internal/config"
	"github.com/trentd187/proof/internal/hub"
	"github.com/trentd187/proof/internal/leaderboard"
	"github.com/trentd187/proof/internal/middleware"
	"github.com/trentd187/proof/internal/scoring"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/syncer"
	"github.com/trentd187/proof/internal/trip"
	"github.com/trentd187/proof/internal/weather"
)

const testSecret = "handler-test-secret"

type offlineWeather struct{}

func (offlineWeather) Current(context.Context, float64, float64) (scoring.Conditions, error) {
	return scoring.Conditions{}, errors.New("no network in tests")
}

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()
	cfg := &config.Config{
		Env:           "development",
		SessionSecret: testSecret,
		SessionTTL:    time.Hour,
		OrganizerIDs:  []string{"player-1"},
		Course:        config.Course{ElevationFt: 800},
	}
	s := store.New(trip.Default(), trip.DefaultEnv(), nil)
	app := fiber.New()
	Mount(app, Deps{
		Config:  cfg,
		Store:   s,
		Sync:    syncer.New(s, nil, time.Minute),
		Hub:     hub.New(),
		Weather: weather.NewService(offlineWeather{}, 0, 0),
	})
	return app, s
}

func tokenFor(t *testing.T, playerID string) string {
	t.Helper()
	role := middleware.RolePlayer
	if playerID == "player-1" {
		role = middleware.RoleOrganizer
	}
	tok, _, err := middleware.IssueToken(testSecret, playerID, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

// call sends one request as playerID ("" for no session) and returns the
// status and raw body.
func call(t *testing.T, app *fiber.App, method, path, playerID string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if playerID != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, playerID))
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

type changesBody struct {
	Changes []struct {
		Table string `json:"table"`
		ID    string `json:"id"`
	} `json:"changes"`
}

func firstChangeID(t *testing.T, body []byte) string {
	t.Helper()
	var cb changesBody
	if err := json.Unmarshal(body, &cb); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	if len(cb.Changes) == 0 {
		t.Fatalf("no changes in %s", body)
	}
	return cb.Changes[0].ID
}

func TestPublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	if code, _ := call(t, app, "GET", "/health", "", nil); code != fiber.StatusOK {
		t.Errorf("health = %d", code)
	}
	if code, _ := call(t, app, "GET", "/metrics", "", nil); code != fiber.StatusOK {
		t.Errorf("metrics = %d", code)
	}

	code, body := call(t, app, "GET", "/api/v1/players", "", nil)
	if code != fiber.StatusOK {
		t.Fatalf("players = %d", code)
	}
	var roster []PlayerResponse
	if err := json.Unmarshal(body, &roster); err != nil {
		t.Fatal(err)
	}
	if len(roster) != 12 {
		t.Errorf("roster has %d players, want 12", len(roster))
	}
	if roster[0].DisplayName == "" || roster[0].HandicapLabel == "" {
		t.Errorf("derived fields missing: %+v", roster[0])
	}

	if code, _ := call(t, app, "GET", "/api/v1/snapshot", "", nil); code != fiber.StatusUnauthorized {
		t.Errorf("snapshot without a session = %d, want 401", code)
	}
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name     string
		playerID string
		wantCode int
		wantRole string
	}{
		{"organizer seat", "player-1", fiber.StatusCreated, middleware.RoleOrganizer},
		{"regular seat", "player-7", fiber.StatusCreated, middleware.RolePlayer},
		{"unknown seat", "player-40", fiber.StatusNotFound, ""},
	}
	app, _ := newTestApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := call(t, app, "POST", "/api/v1/session", "", SessionRequest{PlayerID: tt.playerID})
			if code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", code, tt.wantCode, body)
			}
			if tt.wantRole == "" {
				return
			}
			var resp SessionResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", resp.Role, tt.wantRole)
			}
			claims, err := middleware.ParseToken(testSecret, resp.Token)
			if err != nil {
				t.Fatalf("issued token does not parse: %v", err)
			}
			if claims.Subject != tt.playerID {
				t.Errorf("subject = %q", claims.Subject)
			}
		})
	}
}

func TestAddScoreAndLeaderboard(t *testing.T) {
	app, s := newTestApp(t)

	code, body := call(t, app, "POST", "/api/v1/scores", "player-2",
		map[string]any{"roundNumber": 1, "quick": map[string]int{"front": 42, "back": 44}})
	if code != fiber.StatusCreated {
		t.Fatalf("add score = %d (%s)", code, body)
	}
	scores := trip.GetPlayerScores(s.Snapshot(), "player-2")
	if len(scores) != 1 || scores[0].Total != 86 || !scores[0].Estimated {
		t.Fatalf("stored scores = %+v", scores)
	}

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
	}{
		{"no such round", map[string]any{"roundNumber": 9, "holeScores": []int{4}}, fiber.StatusBadRequest},
		{"no such player", map[string]any{"playerId": "player-99", "roundNumber": 1}, fiber.StatusNotFound},
		{"too many holes", map[string]any{"roundNumber": 2, "holeScores": make([]int, 19)}, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, body := call(t, app, "POST", "/api/v1/scores", "player-2", tt.body); code != tt.wantCode {
				t.Errorf("code = %d, want %d (%s)", code, tt.wantCode, body)
			}
		})
	}

	code, body = call(t, app, "GET", "/api/v1/leaderboard", "player-3", nil)
	if code != fiber.StatusOK {
		t.Fatalf("leaderboard = %d", code)
	}
	var board []map[string]any
	if err := json.Unmarshal(body, &board); err != nil {
		t.Fatal(err)
	}
	if len(board) != 12 {
		t.Errorf("leaderboard has %d rows", len(board))
	}

	code, body = call(t, app, "GET", "/api/v1/scores?round=1", "player-3", nil)
	if code != fiber.StatusOK || !bytes.Contains(body, []byte(`"total":86`)) {
		t.Errorf("round filter = %d %s", code, body)
	}
}

func TestReactions(t *testing.T) {
	app, _ := newTestApp(t)
	code, body := call(t, app, "POST", "/api/v1/messages", "player-4", MessageRequest{Content: "who brought the rangefinder"})
	if code != fiber.StatusCreated {
		t.Fatalf("add message = %d (%s)", code, body)
	}
	id := firstChangeID(t, body)

	tests := []struct {
		reaction string
		wantCode int
	}{
		{"fire", fiber.StatusOK},
		{"laugh", fiber.StatusOK},
		{"love", fiber.StatusBadRequest},
		{"", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.reaction, func(t *testing.T) {
			code, body := call(t, app, "POST", "/api/v1/messages/"+id+"/reactions", "player-5", ReactionRequest{Reaction: tt.reaction})
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d (%s)", code, tt.wantCode, body)
			}
		})
	}

	if code, _ := call(t, app, "POST", "/api/v1/photos/nope/reactions", "player-5", ReactionRequest{Reaction: "fire"}); code != fiber.StatusNotFound {
		t.Errorf("react to missing photo = %d, want 404", code)
	}
}

func TestPhotoDeleteIsUploaderOnly(t *testing.T) {
	app, s := newTestApp(t)
	code, body := call(t, app, "POST", "/api/v1/photos", "player-6", map[string]any{
		"imageData": "data:image/jpeg;base64,/9j/4AAQ", "caption": "sand save", "proofType": "glory",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("add photo = %d (%s)", code, body)
	}
	id := firstChangeID(t, body)
	if p, ok := trip.GetPhotoByID(s.Snapshot(), id); !ok || p.UploadedBy != "player-6" {
		t.Fatalf("photo = %+v, %v", p, ok)
	}

	if code, _ := call(t, app, "DELETE", "/api/v1/photos/"+id, "player-7", nil); code != fiber.StatusForbidden {
		t.Errorf("delete by someone else = %d, want 403", code)
	}
	if code, _ := call(t, app, "DELETE", "/api/v1/photos/"+id, "player-6", nil); code != fiber.StatusOK {
		t.Errorf("delete by uploader = %d, want 200", code)
	}
	if _, ok := trip.GetPhotoByID(s.Snapshot(), id); ok {
		t.Error("photo still present after delete")
	}
}

func TestChallengeWorkflow(t *testing.T) {
	app, s := newTestApp(t)
	id := s.Snapshot().Challenges[0].ID
	base := "/api/v1/challenges/" + id

	steps := []struct {
		name     string
		path     string
		playerID string
		wantCode int
	}{
		{"claim", base + "/claim", "player-2", fiber.StatusOK},
		{"claim again", base + "/claim", "player-3", fiber.StatusConflict},
		{"self verify", base + "/verify", "player-2", fiber.StatusForbidden},
		{"first witness", base + "/verify", "player-3", fiber.StatusOK},
		{"repeat witness", base + "/verify", "player-3", fiber.StatusOK},
		{"second witness", base + "/verify", "player-4", fiber.StatusOK},
		{"dispute after verify", base + "/dispute", "player-5", fiber.StatusConflict},
	}
	for _, st := range steps {
		code, body := call(t, app, "POST", st.path, st.playerID, nil)
		if code != st.wantCode {
			t.Fatalf("%s: code = %d, want %d (%s)", st.name, code, st.wantCode, body)
		}
	}

	ch, _ := trip.GetChallengeByID(s.Snapshot(), id)
	if ch.Status != "verified" {
		t.Errorf("status = %q, want verified", ch.Status)
	}
	p, _ := trip.GetPlayerByID(s.Snapshot(), "player-2")
	if p.ChallengePoints != ch.Points {
		t.Errorf("challenge points = %d, want %d", p.ChallengePoints, ch.Points)
	}

	code, body := call(t, app, "GET", "/api/v1/challenges?status=verified", "player-9", nil)
	if code != fiber.StatusOK || !bytes.Contains(body, []byte(id)) {
		t.Errorf("status filter = %d %s", code, body)
	}
	if code, _ := call(t, app, "GET", "/api/v1/challenges/not-a-challenge", "player-9", nil); code != fiber.StatusNotFound {
		t.Errorf("unknown challenge = %d, want 404", code)
	}
}

func TestSettleBetTwice(t *testing.T) {
	app, s := newTestApp(t)
	code, body := call(t, app, "POST", "/api/v1/bets", "player-2", trip.BetInput{
		Description: "longest drive on 7", Stakes: "a round", PlayersInvolved: []string{"player-2", "player-3"},
	})
	if code != fiber.StatusCreated {
		t.Fatalf("add bet = %d (%s)", code, body)
	}
	id := firstChangeID(t, body)
	if b, _ := trip.GetBetByID(s.Snapshot(), id); b.CreatedBy != "player-2" {
		t.Errorf("createdBy = %q, want the caller", b.CreatedBy)
	}

	settle := "/api/v1/bets/" + id + "/settle"
	if code, _ := call(t, app, "POST", settle, "player-2", SettleRequest{WinnerID: "player-9"}); code != fiber.StatusBadRequest {
		t.Errorf("outsider as winner = %d, want 400", code)
	}
	if code, _ := call(t, app, "POST", settle, "player-2", SettleRequest{WinnerID: "player-3"}); code != fiber.StatusOK {
		t.Errorf("settle = %d, want 200", code)
	}
	if code, _ := call(t, app, "POST", settle, "player-3", SettleRequest{WinnerID: "player-2"}); code != fiber.StatusConflict {
		t.Errorf("second settle = %d, want 409", code)
	}
	if b, _ := trip.GetBetByID(s.Snapshot(), id); b.Winner == nil || *b.Winner != "player-3" {
		t.Errorf("winner = %v, want player-3", b.Winner)
	}

	code, body = call(t, app, "GET", "/api/v1/bets/"+id, "player-7", nil)
	if code != fiber.StatusOK || !bytes.Contains(body, []byte(`"status":"settled"`)) {
		t.Errorf("get bet = %d %s", code, body)
	}
	if code, _ := call(t, app, "GET", "/api/v1/bets/no-such-bet", "player-7", nil); code != fiber.StatusNotFound {
		t.Errorf("unknown bet = %d, want 404", code)
	}
}

func TestOrganizerOnlyRoutes(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   any
	}{
		{"POST", "/api/v1/reset", nil},
		{"PUT", "/api/v1/capsule/revealed", RevealRequest{Revealed: true}},
		{"PUT", "/api/v1/trip-info", map[string]string{"doorCode": "1234"}},
		{"PUT", "/api/v1/itinerary", map[string][]string{"friday": {"tee off 7:30"}}},
		{"POST", "/api/v1/players/player-3/prediction-points", PredictionPointsRequest{Points: 5}},
	}
	app, _ := newTestApp(t)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if code, _ := call(t, app, tt.method, tt.path, "player-2", tt.body); code != fiber.StatusForbidden {
				t.Errorf("as player = %d, want 403", code)
			}
			if code, body := call(t, app, tt.method, tt.path, "player-1", tt.body); code != fiber.StatusOK {
				t.Errorf("as organizer = %d, want 200 (%s)", code, body)
			}
		})
	}
}

func TestUpdatePlayerOwnership(t *testing.T) {
	app, s := newTestApp(t)
	nick := "Sandbagger"

	if code, _ := call(t, app, "PATCH", "/api/v1/players/player-3", "player-2", trip.PlayerUpdate{Nickname: &nick}); code != fiber.StatusForbidden {
		t.Errorf("edit someone else = %d, want 403", code)
	}
	if code, _ := call(t, app, "PATCH", "/api/v1/players/player-2", "player-2", trip.PlayerUpdate{Nickname: &nick}); code != fiber.StatusOK {
		t.Errorf("edit self = %d, want 200", code)
	}
	if code, _ := call(t, app, "PATCH", "/api/v1/players/player-3", "player-1", trip.PlayerUpdate{Nickname: &nick}); code != fiber.StatusOK {
		t.Errorf("organizer edit = %d, want 200", code)
	}
	if p, _ := trip.GetPlayerByID(s.Snapshot(), "player-2"); p.Nickname != nick {
		t.Errorf("nickname = %q", p.Nickname)
	}
}

func TestCapsuleStaysSealed(t *testing.T) {
	app, _ := newTestApp(t)
	code, body := call(t, app, "POST", "/api/v1/capsule", "player-2", trip.CapsuleInput{SecretGoal: "one birdie"})
	if code != fiber.StatusCreated {
		t.Fatalf("seal = %d (%s)", code, body)
	}

	readCapsule := func(playerID string) CapsuleResponse {
		t.Helper()
		code, body := call(t, app, "GET", "/api/v1/capsule", playerID, nil)
		if code != fiber.StatusOK {
			t.Fatalf("capsule = %d", code)
		}
		var resp CapsuleResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if got := readCapsule("player-3"); got.Sealed != 1 || len(got.Entries) != 0 {
		t.Errorf("before reveal, another player sees %+v", got)
	}
	if got := readCapsule("player-2"); len(got.Entries) != 1 {
		t.Errorf("author sees %d entries, want 1", len(got.Entries))
	}
	_, snap := call(t, app, "GET", "/api/v1/snapshot", "player-3", nil)
	if bytes.Contains(snap, []byte("one birdie")) {
		t.Error("snapshot leaked a sealed entry")
	}

	if code, _ := call(t, app, "PUT", "/api/v1/capsule/revealed", "player-1", RevealRequest{Revealed: true}); code != fiber.StatusOK {
		t.Fatalf("reveal = %d", code)
	}
	if got := readCapsule("player-3"); !got.Revealed || len(got.Entries) != 1 {
		t.Errorf("after reveal = %+v", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	app, s := newTestApp(t)
	call(t, app, "POST", "/api/v1/messages", "player-2", MessageRequest{Content: "front nine was a crime"})
	if len(s.Snapshot().Messages) != 1 {
		t.Fatal("message not stored")
	}
	if code, _ := call(t, app, "POST", "/api/v1/reset", "player-1", nil); code != fiber.StatusOK {
		t.Fatalf("reset = %d", code)
	}
	if n := len(s.Snapshot().Messages); n != 0 {
		t.Errorf("%d messages after reset", n)
	}
}

func TestCaddie(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := call(t, app, "GET", "/api/v1/caddie?target=150&bearing=0", "player-2", nil)
	if code != fiber.StatusOK {
		t.Fatalf("caddie = %d (%s)", code, body)
	}
	var resp CaddieResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Weather.Live {
		t.Error("expected the fallback reading before any refresh")
	}
	if resp.Recommended == nil {
		t.Fatal("no club recommended")
	}
	if len(resp.Bag) != len(scoring.DefaultBag()) {
		t.Errorf("bag has %d clubs", len(resp.Bag))
	}
	if resp.WindFrom != "S" {
		t.Errorf("windFrom = %q, want S for the fallback 180°", resp.WindFrom)
	}

	for _, q := range []string{"target=0", "target=-5", "bearing=360"} {
		if code, _ := call(t, app, "GET", "/api/v1/caddie?"+q, "player-2", nil); code != fiber.StatusBadRequest {
			t.Errorf("%s: code = %d, want 400", q, code)
		}
	}
}

func TestStreamRejectsUnknownTopic(t *testing.T) {
	app, _ := newTestApp(t)
	if code, _ := call(t, app, "GET", "/api/v1/stream?topic=golf-carts", "player-2", nil); code != fiber.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
}

func TestShameAndPoints(t *testing.T) {
	app, _ := newTestApp(t)

	code, body := call(t, app, "GET", "/api/v1/shame", "player-2", nil)
	if code != fiber.StatusOK || string(body) != "[]" {
		t.Errorf("empty wall = %d %s", code, body)
	}
	call(t, app, "POST", "/api/v1/scores", "player-4",
		map[string]any{"roundNumber": 2, "quick": map[string]int{"front": 55, "back": 58}})
	code, body = call(t, app, "GET", "/api/v1/shame", "player-2", nil)
	if code != fiber.StatusOK || !bytes.Contains(body, []byte("Shot 113 at Balboa")) {
		t.Errorf("wall after a bad round = %d %s", code, body)
	}

	if code, _ := call(t, app, "POST", "/api/v1/players/player-5/prediction-points", "player-1",
		PredictionPointsRequest{Points: 3}); code != fiber.StatusOK {
		t.Fatalf("award points = %d", code)
	}

	tests := []struct {
		query    string
		wantCode int
		wantTop  string
	}{
		{"", fiber.StatusOK, "player-1"},
		{"?by=challenge", fiber.StatusOK, "player-1"},
		{"?by=prediction", fiber.StatusOK, "player-5"},
		{"?by=golf", fiber.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run("points"+tt.query, func(t *testing.T) {
			code, body := call(t, app, "GET", "/api/v1/points"+tt.query, "player-2", nil)
			if code != tt.wantCode {
				t.Fatalf("code = %d, want %d (%s)", code, tt.wantCode, body)
			}
			if tt.wantTop == "" {
				return
			}
			var board []leaderboard.PointsEntry
			if err := json.Unmarshal(body, &board); err != nil {
				t.Fatal(err)
			}
			if len(board) != 12 || board[0].Player.ID != tt.wantTop {
				t.Errorf("board has %d rows, top %+v", len(board), board[0].Player)
			}
		})
	}
}

func TestSyncStatusOffline(t *testing.T) {
	app, _ := newTestApp(t)
	code, body := call(t, app, "GET", "/api/v1/sync", "player-2", nil)
	if code != fiber.StatusOK {
		t.Fatalf("sync = %d", code)
	}
	var st SyncResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatal(err)
	}
	if st.Mode != syncer.ModeOffline || st.Pending != 0 || st.Streams != 0 {
		t.Errorf("status = %+v", st)
	}
}
