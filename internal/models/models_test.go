package models

import "testing"

func TestHandicapLabel(t *testing.T) {
	tests := []struct {
		handicap int
		want     string
	}{
		{0, "Allegedly"},
		{5, "Allegedly"},
		{6, "Decent on paper"},
		{15, "Weekend warrior"},
		{20, "Plays for the beer cart"},
		{25, "Cart path connoisseur"},
		{30, "Finds every bunker"},
		{36, "Just happy to be here"},
	}
	for _, tt := range tests {
		if got := HandicapLabel(tt.handicap); got != tt.want {
			t.Errorf("HandicapLabel(%d) = %q, want %q", tt.handicap, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	p := Player{Name: "Trent"}
	if got := p.DisplayName(); got != "Trent" {
		t.Errorf("without nickname = %q", got)
	}
	p.Nickname = "Shanks"
	if got := p.DisplayName(); got != "Shanks" {
		t.Errorf("with nickname = %q", got)
	}
}

func TestReactions(t *testing.T) {
	var r Reactions
	r = r.Inc(ReactionFire).Inc(ReactionFire).Inc(ReactionCap)
	if r != (Reactions{Fire: 2, Cap: 1}) {
		t.Errorf("got %+v", r)
	}

	before := r
	_ = r.Inc(ReactionDead)
	if r != before {
		t.Error("Inc modified its receiver")
	}

	for _, key := range []string{"fire", "dead", "laugh", "cap"} {
		if _, ok := ParseReaction(key); !ok {
			t.Errorf("%q should parse", key)
		}
	}
	for _, key := range []string{"", "Fire", "love"} {
		if _, ok := ParseReaction(key); ok {
			t.Errorf("%q should not parse", key)
		}
	}
}

func TestRoundByNumber(t *testing.T) {
	if len(Rounds) != RoundCount {
		t.Fatalf("%d rounds scheduled, want %d", len(Rounds), RoundCount)
	}
	for n := 1; n <= RoundCount; n++ {
		r, ok := RoundByNumber(n)
		if !ok || r.Number != n {
			t.Errorf("RoundByNumber(%d) = %+v, %v", n, r, ok)
		}
	}
	for _, n := range []int{0, 5, -1} {
		if _, ok := RoundByNumber(n); ok {
			t.Errorf("RoundByNumber(%d) should fail", n)
		}
	}
}

func TestFoursomesRounds(t *testing.T) {
	f := Foursomes{Round1: [][]string{{"a"}}, Round4: [][]string{{"d"}}}
	rounds := f.Rounds()
	if len(rounds) != 4 || rounds[0][0][0] != "a" || rounds[3][0][0] != "d" || rounds[1] != nil {
		t.Errorf("Rounds() = %v", rounds)
	}
}
