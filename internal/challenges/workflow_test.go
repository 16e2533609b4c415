package challenges

import (
	"errors"
	"testing"

	"github.com/trentd187/proof/internal/models"
)

func openChallenge() models.Challenge {
	return Seed()[0]
}

func claimed(t *testing.T, by string) models.Challenge {
	t.Helper()
	c, _, err := Claim(openChallenge(), by, nil)
	if err != nil {
		t.Fatalf("Claim failed: %v", err)
	}
	return c
}

func TestCatalog(t *testing.T) {
	seeded := Seed()
	if len(seeded) != 67 {
		t.Fatalf("catalog has %d entries, want 67", len(seeded))
	}

	ids := make(map[string]bool)
	categories := make(map[models.ChallengeCategory]int)
	for _, c := range seeded {
		if ids[c.ID] {
			t.Errorf("duplicate challenge id %q", c.ID)
		}
		ids[c.ID] = true
		categories[c.Category]++

		if c.Points < 5 || c.Points > 50 {
			t.Errorf("%s: points %d outside 5..50", c.Title, c.Points)
		}
		if c.Status != models.ChallengeOpen || c.ClaimedBy != nil {
			t.Errorf("%s: seeded challenge should be open and unclaimed", c.Title)
		}
	}
	if len(categories) != 7 {
		t.Errorf("got %d categories, want 7", len(categories))
	}
	if ID("Shotgun Speedrun") != "shotgun-speedrun" {
		t.Errorf("unexpected slug %q", ID("Shotgun Speedrun"))
	}
}

func TestClaim(t *testing.T) {
	t.Run("open challenge can be claimed", func(t *testing.T) {
		photo := "photo-1"
		c, out, err := Claim(openChallenge(), "player-1", &photo)
		if err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if !out.Changed {
			t.Error("expected Changed")
		}
		if c.Status != models.ChallengeClaimed || c.ClaimedBy == nil || *c.ClaimedBy != "player-1" {
			t.Errorf("unexpected state after claim: %+v", c)
		}
		if c.ProofPhotoID == nil || *c.ProofPhotoID != "photo-1" {
			t.Error("expected proof photo to be linked")
		}
	})

	t.Run("claimed challenge rejects a second claim", func(t *testing.T) {
		c := claimed(t, "player-1")
		got, _, err := Claim(c, "player-2", nil)
		if !errors.Is(err, ErrAlreadyClaimed) {
			t.Fatalf("err = %v, want ErrAlreadyClaimed", err)
		}
		if *got.ClaimedBy != "player-1" {
			t.Error("claimant changed on rejected claim")
		}
	})

	t.Run("claim clears stale votes", func(t *testing.T) {
		c := openChallenge()
		c.VerifiedBy = []string{"player-9"}
		c.DisputedBy = []string{"player-8"}
		c, _, err := Claim(c, "player-1", nil)
		if err != nil {
			t.Fatalf("Claim failed: %v", err)
		}
		if len(c.VerifiedBy) != 0 || len(c.DisputedBy) != 0 {
			t.Errorf("expected empty vote sets, got %v / %v", c.VerifiedBy, c.DisputedBy)
		}
	})
}

func TestVerifyQuorum(t *testing.T) {
	c := claimed(t, "player-1")

	c, out, err := Verify(c, "player-2")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if out.Verified || c.Status != models.ChallengeClaimed {
		t.Fatal("one witness must not verify the challenge")
	}

	// the same witness again does not count twice
	c, out, err = Verify(c, "player-2")
	if err != nil {
		t.Fatalf("repeat Verify failed: %v", err)
	}
	if out.Changed || len(c.VerifiedBy) != 1 {
		t.Fatalf("duplicate verifier counted: %v", c.VerifiedBy)
	}

	c, out, err = Verify(c, "player-3")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !out.Verified || c.Status != models.ChallengeVerified {
		t.Fatalf("expected verified after two distinct witnesses, got %s", c.Status)
	}

	// verified is terminal
	_, out, err = Verify(c, "player-4")
	if !errors.Is(err, ErrVerified) {
		t.Errorf("err = %v, want ErrVerified", err)
	}
	if out.Verified {
		t.Error("terminal challenge reported a second verification")
	}
}

func TestVerifyRejections(t *testing.T) {
	if _, _, err := Verify(openChallenge(), "player-2"); !errors.Is(err, ErrNotClaimed) {
		t.Errorf("open: err = %v, want ErrNotClaimed", err)
	}
	c := claimed(t, "player-1")
	if _, _, err := Verify(c, "player-1"); !errors.Is(err, ErrSelfVerify) {
		t.Errorf("self: err = %v, want ErrSelfVerify", err)
	}
}

func TestDisputeVeto(t *testing.T) {
	c := claimed(t, "player-1")
	c, _, _ = Verify(c, "player-2")

	for i, voter := range []string{"player-5", "player-6"} {
		var out Outcome
		var err error
		c, out, err = Dispute(c, voter)
		if err != nil {
			t.Fatalf("Dispute %d failed: %v", i, err)
		}
		if out.Reset {
			t.Fatalf("reset after only %d disputes", i+1)
		}
	}

	// repeat disputer does not tip it over
	c, out, _ := Dispute(c, "player-6")
	if out.Reset || len(c.DisputedBy) != 2 {
		t.Fatalf("duplicate disputer counted: %v", c.DisputedBy)
	}

	c, out, err := Dispute(c, "player-7")
	if err != nil {
		t.Fatalf("Dispute failed: %v", err)
	}
	if !out.Reset {
		t.Fatal("expected reset at three distinct disputes")
	}
	if c.Status != models.ChallengeOpen || c.ClaimedBy != nil {
		t.Errorf("expected open and unclaimed, got %s / %v", c.Status, c.ClaimedBy)
	}
	if len(c.VerifiedBy) != 0 || len(c.DisputedBy) != 0 {
		t.Errorf("expected cleared vote sets, got %v / %v", c.VerifiedBy, c.DisputedBy)
	}

	// and it can be claimed again
	if _, _, err := Claim(c, "player-4", nil); err != nil {
		t.Errorf("re-claim failed: %v", err)
	}
}

func TestDisputeRejections(t *testing.T) {
	if _, _, err := Dispute(openChallenge(), "player-2"); !errors.Is(err, ErrNotClaimed) {
		t.Errorf("open: err = %v, want ErrNotClaimed", err)
	}
	c := claimed(t, "player-1")
	if _, _, err := Dispute(c, "player-1"); !errors.Is(err, ErrSelfDispute) {
		t.Errorf("self: err = %v, want ErrSelfDispute", err)
	}
}

func TestTransitionsDoNotShareSlices(t *testing.T) {
	c := claimed(t, "player-1")
	before := c
	after, _, _ := Verify(c, "player-2")
	if len(before.VerifiedBy) != 0 {
		t.Errorf("input mutated: %v", before.VerifiedBy)
	}
	if len(after.VerifiedBy) != 1 {
		t.Errorf("output missing verifier: %v", after.VerifiedBy)
	}
}
