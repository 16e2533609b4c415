package hub

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/trentd187/proof/internal/models"
	"github.com/trentd187/proof/internal/store"
	"github.com/trentd187/proof/internal/trip"
)

func receive(t *testing.T, c *Client) (string, bool) {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		return string(data), ok
	case <-time.After(time.Second):
		return "", false
	}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Errorf("unexpected frame for %s: %s", c.Topic, data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastRoutesByTopic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := New()
	go h.Run(ctx)

	scores := NewClient(string(trip.TableScores))
	all := NewClient(TopicAll)
	bets := NewClient(string(trip.TableBets))
	for _, c := range []*Client{scores, all, bets} {
		if !h.Register(c) {
			t.Fatal("hub stopped early")
		}
	}

	h.OnEvent(store.Event{Changes: []trip.Change{{
		Table: trip.TableScores, Op: trip.OpUpsert, ID: "s1",
		Record: models.Score{ID: "s1", PlayerID: "player-1", Total: 88},
	}}})

	for _, c := range []*Client{scores, all} {
		frame, ok := receive(t, c)
		if !ok {
			t.Fatalf("%s: no frame", c.Topic)
		}
		if !strings.HasPrefix(frame, "event: scores\ndata: ") || !strings.HasSuffix(frame, "\n\n") {
			t.Errorf("%s: bad frame %q", c.Topic, frame)
		}
		if !strings.Contains(frame, `"total":88`) {
			t.Errorf("%s: frame is missing the record: %s", c.Topic, frame)
		}
	}
	expectNothing(t, bets)
}

func TestReplaceGoesToAllAsSnapshotEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := New()
	go h.Run(ctx)

	all := NewClient(TopicAll)
	h.Register(all)
	h.OnEvent(store.Event{Changes: []trip.Change{{Table: trip.TableAll, Op: trip.OpReplace, Record: trip.Default()}}})

	frame, ok := receive(t, all)
	if !ok || !strings.HasPrefix(frame, "event: snapshot\n") {
		t.Fatalf("frame = %q", frame)
	}
	if strings.Contains(frame, "players") {
		t.Error("snapshot frame should not carry the whole snapshot")
	}
}

func TestCapsuleFramesCarryNoRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := New()
	go h.Run(ctx)

	c := NewClient(string(trip.TableTimeCapsule))
	h.Register(c)
	entry := models.TimeCapsuleEntry{PlayerID: "player-1", SecretGoal: "break 90"}
	h.OnEvent(store.Event{Changes: []trip.Change{{Table: trip.TableTimeCapsule, Op: trip.OpUpsert, ID: "player-1", Record: entry}}})

	frame, ok := receive(t, c)
	if !ok {
		t.Fatal("no frame received")
	}
	if strings.Contains(frame, "break 90") {
		t.Errorf("sealed entry leaked into the stream: %s", frame)
	}
	if !strings.Contains(frame, `"id":"player-1"`) {
		t.Errorf("frame should still name the entry: %s", frame)
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := New()
	go h.Run(ctx)

	c := NewClient(TopicAll)
	h.Register(c)
	h.Unregister(c)
	if _, ok := receive(t, c); ok {
		t.Error("Send should be closed after Unregister")
	}
	// A second unregister is harmless.
	h.Unregister(c)
}

func TestSlowClientIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := New()
	go h.Run(ctx)

	slow := NewClient(TopicAll)
	h.Register(slow)
	for range sendBuffer + 1 {
		h.Broadcast(TopicAll, Frame("ping", []byte("{}")))
	}

	// Nobody reads, so the frame after a full buffer drops the client.
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
	n := 0
	for range slow.Send {
		n++
	}
	if n != sendBuffer {
		t.Errorf("received %d buffered frames, want %d", n, sendBuffer)
	}
}

func TestStoppedHubRefusesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New()
	stopped := make(chan struct{})
	go func() { h.Run(ctx); close(stopped) }()

	c := NewClient(TopicAll)
	h.Register(c)
	cancel()
	<-stopped

	if _, ok := receive(t, c); ok {
		t.Error("Send should be closed when the hub stops")
	}
	if h.Register(NewClient(TopicAll)) {
		t.Error("Register should fail on a stopped hub")
	}
	h.Unregister(c) // must not block
}

func TestFrame(t *testing.T) {
	got := string(Frame("bets", []byte(`{"id":"b1"}`)))
	want := "event: bets\ndata: {\"id\":\"b1\"}\n\n"
	if got != want {
		t.Errorf("Frame = %q, want %q", got, want)
	}
}
